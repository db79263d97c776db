package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/sketchcad/internal/config"
	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/ops"
)

// testSetup creates a fresh session with default config.
func testSetup(t *testing.T) (*Handlers, *config.Config) {
	t.Helper()
	cfg := config.DefaultConfig()
	return NewHandlers(ops.NewSession(cfg, nil)), cfg
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestHandleAddEntities(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		handler   func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name:    "point",
			handler: h.HandleAddPoint,
			args:    map[string]any{"x": 1.5, "y": -2},
		},
		{
			name:    "line",
			handler: h.HandleAddLine,
			args:    map[string]any{"x1": 0, "y1": 0, "x2": 3, "y2": 4},
		},
		{
			name:    "circle",
			handler: h.HandleAddCircle,
			args:    map[string]any{"x": 1, "y": 1, "r": 2},
		},
		{
			name:      "point missing y",
			handler:   h.HandleAddPoint,
			args:      map[string]any{"x": 1},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "line with string coordinate",
			handler:   h.HandleAddLine,
			args:      map[string]any{"x1": "zero", "y1": 0, "x2": 1, "y2": 1},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "circle negative radius",
			handler:   h.HandleAddCircle,
			args:      map[string]any{"x": 0, "y": 0, "r": -1},
			wantError: true,
			errorCode: "OUT_OF_RANGE",
		},
		{
			name:      "unknown argument",
			handler:   h.HandleAddPoint,
			args:      map[string]any{"x": 1, "y": 1, "z": 1},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.IsError != tt.wantError {
				t.Fatalf("IsError = %v, want %v: %s", result.IsError, tt.wantError, extractErrorMessage(result))
			}
			if tt.wantError {
				assertErrorCode(t, result, tt.errorCode)
			}
		})
	}

	// Only the three valid calls changed the sketch.
	result, _ := h.HandleList(ctx, makeRequest(nil))
	output := parseOutput(t, result)
	if output["count"].(float64) != 3 {
		t.Errorf("count = %v, want 3", output["count"])
	}
	entities := output["entities"].([]any)
	first := entities[0].(map[string]any)
	if first["kind"] != "point" || first["description"] != "Point at (1.50, -2.00)" {
		t.Errorf("first entity = %v", first)
	}
}

func TestHandleUndoRedo(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	result, _ := h.HandleUndo(ctx, makeRequest(nil))
	assertErrorCode(t, result, "NOTHING_TO_UNDO")

	for i := 0; i < 3; i++ {
		result, _ = h.HandleAddPoint(ctx, makeRequest(map[string]any{"x": i, "y": i}))
		parseOutput(t, result)
	}

	result, _ = h.HandleUndo(ctx, makeRequest(nil))
	output := parseOutput(t, result)
	if output["count"].(float64) != 2 || output["redo_depth"].(float64) != 1 {
		t.Errorf("after undo = %v", output)
	}

	result, _ = h.HandleRedo(ctx, makeRequest(nil))
	output = parseOutput(t, result)
	if output["count"].(float64) != 3 {
		t.Errorf("after redo count = %v, want 3", output["count"])
	}

	result, _ = h.HandleRedo(ctx, makeRequest(nil))
	assertErrorCode(t, result, "NOTHING_TO_REDO")

	result, _ = h.HandleHistory(ctx, makeRequest(nil))
	output = parseOutput(t, result)
	if n := len(output["undo"].([]any)); n != 3 {
		t.Errorf("undo snapshots = %d, want 3", n)
	}

	result, _ = h.HandleClearHistory(ctx, makeRequest(nil))
	output = parseOutput(t, result)
	if output["undo_depth"].(float64) != 0 || output["count"].(float64) != 3 {
		t.Errorf("after history clear = %v", output)
	}

	result, _ = h.HandleClear(ctx, makeRequest(nil))
	output = parseOutput(t, result)
	if output["count"].(float64) != 0 || output["undoable"] != true {
		t.Errorf("after clear = %v", output)
	}
}

func TestHandleShapes(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		handler    func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args       map[string]any
		wantFacets float64
		errorCode  string
	}{
		{"cube", h.HandleCube, map[string]any{"size": 2, "divisions": 1}, 12, ""},
		{"cube default divisions", h.HandleCube, map[string]any{"size": 2}, 12, ""},
		{"cube missing size", h.HandleCube, map[string]any{}, 0, "INVALID_REQUEST"},
		{"cube too many divisions", h.HandleCube, map[string]any{"size": 1, "divisions": 101}, 0, "OUT_OF_RANGE"},
		{"sphere lat lon", h.HandleSphere, map[string]any{"radius": 1, "lat_divisions": 2, "lon_divisions": 4}, 8, ""},
		{"sphere single divisions", h.HandleSphere, map[string]any{"radius": 1, "divisions": 3}, 12, ""},
		{"sphere divisions below 3", h.HandleSphere, map[string]any{"radius": 1, "divisions": 2}, 0, "OUT_OF_RANGE"},
		{"sphere mixed forms", h.HandleSphere, map[string]any{"radius": 1, "divisions": 4, "lon_divisions": 4}, 0, "INVALID_REQUEST"},
		{"sphere fractional divisions", h.HandleSphere, map[string]any{"radius": 1, "divisions": 3.5}, 0, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.errorCode != "" {
				if !result.IsError {
					t.Fatalf("expected error %s, got success", tt.errorCode)
				}
				assertErrorCode(t, result, tt.errorCode)
				return
			}
			output := parseOutput(t, result)
			if output["facets"].(float64) != tt.wantFacets {
				t.Errorf("facets = %v, want %v", output["facets"], tt.wantFacets)
			}
		})
	}
}

func TestHandleDivisions(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	result, err := h.HandleCubeDivisions(ctx, makeRequest(map[string]any{"divisions": 2}))
	if err != nil || result.IsError {
		t.Fatalf("shape_cube_divisions failed: %v %+v", err, result)
	}
	output := parseOutput(t, result)
	if output["cube_divisions"].(float64) != 2 {
		t.Errorf("cube_divisions = %v, want 2", output["cube_divisions"])
	}

	result, err = h.HandleCube(ctx, makeRequest(map[string]any{"size": 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facets := parseOutput(t, result)["facets"].(float64); facets != 6*2*4 {
		t.Errorf("facets = %v, want %d", facets, 6*2*4)
	}

	result, err = h.HandleSphereDivisions(ctx, makeRequest(map[string]any{"lat_divisions": 2, "lon_divisions": 4}))
	if err != nil || result.IsError {
		t.Fatalf("shape_sphere_divisions failed: %v %+v", err, result)
	}
	result, err = h.HandleSphere(ctx, makeRequest(map[string]any{"radius": 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facets := parseOutput(t, result)["facets"].(float64); facets != 8 {
		t.Errorf("facets = %v, want 8", facets)
	}

	errorCases := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		code    string
	}{
		{"cube missing divisions", h.HandleCubeDivisions, map[string]any{}, "INVALID_REQUEST"},
		{"cube divisions zero", h.HandleCubeDivisions, map[string]any{"divisions": 0}, "OUT_OF_RANGE"},
		{"sphere missing lon", h.HandleSphereDivisions, map[string]any{"lat_divisions": 4}, "INVALID_REQUEST"},
		{"sphere lon below 3", h.HandleSphereDivisions, map[string]any{"lat_divisions": 4, "lon_divisions": 2}, "OUT_OF_RANGE"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Fatalf("expected error %s, got success", tt.code)
			}
			assertErrorCode(t, result, tt.code)
		})
	}
}

func TestHandleSaveMesh(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "part.stl")

	result, _ := h.HandleSaveMesh(ctx, makeRequest(map[string]any{"path": path}))
	assertErrorCode(t, result, "NO_SHAPE")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file after NO_SHAPE, stat err = %v", err)
	}

	result, _ = h.HandleCube(ctx, makeRequest(map[string]any{"size": 2}))
	parseOutput(t, result)

	result, _ = h.HandleSaveMesh(ctx, makeRequest(map[string]any{"path": path, "precision": 3}))
	output := parseOutput(t, result)
	if output["facets"].(float64) != 12 {
		t.Errorf("facets = %v, want 12", output["facets"])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read mesh: %v", err)
	}
	if !strings.Contains(string(data), "vertex 1.000 -1.000 -1.000") {
		t.Errorf("unexpected STL content:\n%s", data)
	}

	result, _ = h.HandleSaveMesh(ctx, makeRequest(map[string]any{"path": filepath.Join(t.TempDir(), "part.obj")}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleExportImport(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sketch.dxf")

	h.HandleAddPoint(ctx, makeRequest(map[string]any{"x": 1, "y": 2}))
	h.HandleAddLine(ctx, makeRequest(map[string]any{"x1": 0, "y1": 0, "x2": 0.25, "y2": -8}))
	h.HandleAddCircle(ctx, makeRequest(map[string]any{"x": 3, "y": 3, "r": 1}))

	result, _ := h.HandleExportDXF(ctx, makeRequest(map[string]any{"path": path}))
	output := parseOutput(t, result)
	if output["count"].(float64) != 3 {
		t.Fatalf("exported count = %v, want 3", output["count"])
	}

	other, _ := testSetup(t)
	result, _ = other.HandleImportDXF(ctx, makeRequest(map[string]any{"path": path}))
	output = parseOutput(t, result)
	if output["imported"].(float64) != 3 || output["undoable"] != true {
		t.Fatalf("import output = %v", output)
	}

	want, _ := h.HandleList(ctx, makeRequest(nil))
	got, _ := other.HandleList(ctx, makeRequest(nil))
	if extractErrorMessage(want) != extractErrorMessage(got) {
		t.Errorf("round trip mismatch:\nwant %s\ngot  %s", extractErrorMessage(want), extractErrorMessage(got))
	}

	result, _ = other.HandleImportDXF(ctx, makeRequest(map[string]any{"path": filepath.Join(t.TempDir(), "missing.dxf")}))
	assertErrorCode(t, result, "FILE_NOT_FOUND")

	bad := filepath.Join(t.TempDir(), "bad.dxf")
	if err := os.WriteFile(bad, []byte("0\nPOINT\n10\nx\n"), 0644); err != nil {
		t.Fatal(err)
	}
	result, _ = other.HandleImportDXF(ctx, makeRequest(map[string]any{"path": bad}))
	assertErrorCode(t, result, "FORMAT_ERROR")
}

func TestHandleInspect(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	result, _ := h.HandleInspect(ctx, makeRequest(nil))
	output := parseOutput(t, result)
	if _, ok := output["mesh"]; ok {
		t.Error("expected no mesh stats without a shape")
	}

	h.HandleSphere(ctx, makeRequest(map[string]any{"radius": 1, "lat_divisions": 2, "lon_divisions": 4}))
	result, _ = h.HandleInspect(ctx, makeRequest(nil))
	output = parseOutput(t, result)
	stats, ok := output["mesh"].(map[string]any)
	if !ok {
		t.Fatalf("expected mesh stats, got %v", output)
	}
	if stats["facets"].(float64) != 8 {
		t.Errorf("facets = %v, want 8", stats["facets"])
	}
	shape := output["shape"].(map[string]any)
	if shape["kind"] != "sphere" {
		t.Errorf("shape kind = %v, want sphere", shape["kind"])
	}
}

func TestHandlers_ConcurrentCallsAreSerialised(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.HandleAddPoint(ctx, makeRequest(map[string]any{"x": i, "y": i}))
		}(i)
	}
	wg.Wait()

	result, _ := h.HandleList(ctx, makeRequest(nil))
	output := parseOutput(t, result)
	if output["count"].(float64) != 50 {
		t.Errorf("count = %v, want 50", output["count"])
	}
}

func TestServerRegistration(t *testing.T) {
	_, cfg := testSetup(t)

	s := NewServer(ops.NewSession(cfg, nil), "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"sketch_add_point",
		"sketch_add_line",
		"sketch_add_circle",
		"sketch_list",
		"sketch_clear",
		"history_undo",
		"history_redo",
		"history_clear",
		"history_list",
		"shape_cube",
		"shape_sphere",
		"shape_cube_divisions",
		"shape_sphere_divisions",
		"mesh_save",
		"dxf_export",
		"dxf_import",
		"state_inspect",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}

	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	_, cfg := testSetup(t)
	cfg.DisabledTools = []string{"dxf_import", "mesh_save", "mesh_save"}

	tools := NewServer(ops.NewSession(cfg, nil), "test").ListTools()

	if len(tools) != 15 {
		t.Errorf("registered tool count = %d, want 15", len(tools))
	}
	for _, name := range []string{"dxf_import", "mesh_save"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}
}

func TestServerRegistration_WithDisabledTypes(t *testing.T) {
	_, cfg := testSetup(t)
	cfg.DisabledTypes = []string{"history", "dxf"}

	tools := NewServer(ops.NewSession(cfg, nil), "test").ListTools()

	if len(tools) != 11 {
		t.Errorf("registered tool count = %d, want 11", len(tools))
	}
	for name := range tools {
		if typ := GetTypeForTool(name); typ == "history" || typ == "dxf" {
			t.Errorf("tool %q of disabled type should not be registered", name)
		}
	}
}

func TestServerRegistration_AllToolsDisabled(t *testing.T) {
	_, cfg := testSetup(t)
	cfg.DisabledTools = AllToolNames()

	tools := NewServer(ops.NewSession(cfg, nil), "test").ListTools()
	if len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (all disabled)", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{"all valid", []string{"mesh_save", "dxf_import"}, 0},
		{"one unknown", []string{"mesh_save", "fake_tool"}, 1},
		{"all unknown", []string{"foo", "bar", "baz"}, 3},
		{"empty list", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if unknown := ValidateDisabledTools(tt.input); len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestValidateDisabledTypes(t *testing.T) {
	if unknown := ValidateDisabledTypes([]string{"sketch", "mesh"}); len(unknown) != 0 {
		t.Errorf("unexpected unknown types: %v", unknown)
	}
	if unknown := ValidateDisabledTypes([]string{"assembly"}); len(unknown) != 1 {
		t.Errorf("expected assembly to be unknown, got %v", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 17 {
		t.Errorf("AllToolNames() returned %d names, want 17", len(names))
	}
	if unknown := ValidateDisabledTools(names); len(unknown) != 0 {
		t.Errorf("AllToolNames() returned invalid names: %v", unknown)
	}
	for _, name := range names {
		if unknown := ValidateDisabledTypes([]string{GetTypeForTool(name)}); len(unknown) != 0 {
			t.Errorf("tool %q has unknown type", name)
		}
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("open /tmp/secret: permission denied")))
	errObj := errorObject(t, r)

	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_WrappedErrorPreservesContext(t *testing.T) {
	wrappedErr := fmt.Errorf("entity 2: %w", errors.NewCapacityExceeded(1000, 1001))

	errObj := errorObject(t, errorResult(wrappedErr))

	if errObj["code"] != string(errors.ErrCapacityExceeded) {
		t.Errorf("code=%v, want %v", errObj["code"], errors.ErrCapacityExceeded)
	}
	msg := errObj["message"].(string)
	if !strings.HasPrefix(msg, "entity 2: ") || strings.Contains(msg, "CAPACITY_EXCEEDED") {
		t.Errorf("message should keep wrapper context without the code, got: %s", msg)
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	errObj := errorObject(t, errorResult(errors.NewFormat(7, "bad number")))

	if errObj["code"] != string(errors.ErrFormat) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrFormat)
	}
	details, ok := errObj["details"].(map[string]any)
	if !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
	if details["line"].(float64) != 7 {
		t.Errorf("details.line = %v, want 7", details["line"])
	}
}

func TestErrorResult_PlainErrorIsInternal(t *testing.T) {
	errObj := errorObject(t, errorResult(fmt.Errorf("boom")))
	if errObj["code"] != "INTERNAL" {
		t.Errorf("code=%v, want INTERNAL", errObj["code"])
	}
}

// Helper functions

func errorObject(t *testing.T, r *mcp.CallToolResult) map[string]any {
	t.Helper()
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	return payload["error"].(map[string]any)
}

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	if code, _ := errorObj["code"].(string); code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
