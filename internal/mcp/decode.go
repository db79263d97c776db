package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode unmarshals MCP request arguments into a typed struct.
// Unknown argument names are rejected so a misspelt optional field does not
// silently fall back to its default.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return result, fmt.Errorf("invalid arguments: %w", err)
	}
	return result, nil
}

// required dereferences a mandatory numeric argument.
func required(name string, v *float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	return *v, nil
}

// requiredInt dereferences a mandatory integer argument.
func requiredInt(name string, v *int) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	return *v, nil
}
