package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/ops"
)

// Handlers holds the session every MCP tool operates on. Tool calls may
// arrive concurrently; mu serialises access to the session.
type Handlers struct {
	mu      sync.Mutex
	session *ops.Session
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(session *ops.Session) *Handlers {
	return &Handlers{session: session}
}

// Request types for each tool

// PointRequest represents the arguments for sketch_add_point.
type PointRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// LineRequest represents the arguments for sketch_add_line.
type LineRequest struct {
	X1 *float64 `json:"x1"`
	Y1 *float64 `json:"y1"`
	X2 *float64 `json:"x2"`
	Y2 *float64 `json:"y2"`
}

// CircleRequest represents the arguments for sketch_add_circle.
type CircleRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	R *float64 `json:"r"`
}

// CubeRequest represents the arguments for shape_cube.
type CubeRequest struct {
	Size      *float64 `json:"size"`
	Divisions *int     `json:"divisions,omitempty"`
}

// SphereRequest represents the arguments for shape_sphere.
type SphereRequest struct {
	Radius       *float64 `json:"radius"`
	Divisions    *int     `json:"divisions,omitempty"`
	LatDivisions *int     `json:"lat_divisions,omitempty"`
	LonDivisions *int     `json:"lon_divisions,omitempty"`
}

// CubeDivisionsRequest represents the arguments for shape_cube_divisions.
type CubeDivisionsRequest struct {
	Divisions *int `json:"divisions"`
}

// SphereDivisionsRequest represents the arguments for shape_sphere_divisions.
type SphereDivisionsRequest struct {
	LatDivisions *int `json:"lat_divisions"`
	LonDivisions *int `json:"lon_divisions"`
}

// SaveMeshRequest represents the arguments for mesh_save.
type SaveMeshRequest struct {
	Path      string `json:"path"`
	Precision *int   `json:"precision,omitempty"`
}

// PathRequest represents the arguments for dxf_export and dxf_import.
type PathRequest struct {
	Path string `json:"path"`
}

// Handler implementations

// HandleAddPoint handles the sketch_add_point tool call.
func (h *Handlers) HandleAddPoint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PointRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	var in ops.AddPointInput
	if err := requireAll(
		field{"x", input.X, &in.X},
		field{"y", input.Y, &in.Y},
	); err != nil {
		return errorResult(err), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.AddPoint(h.session, in))
}

// HandleAddLine handles the sketch_add_line tool call.
func (h *Handlers) HandleAddLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LineRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	var in ops.AddLineInput
	if err := requireAll(
		field{"x1", input.X1, &in.X1},
		field{"y1", input.Y1, &in.Y1},
		field{"x2", input.X2, &in.X2},
		field{"y2", input.Y2, &in.Y2},
	); err != nil {
		return errorResult(err), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.AddLine(h.session, in))
}

// HandleAddCircle handles the sketch_add_circle tool call.
func (h *Handlers) HandleAddCircle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CircleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	var in ops.AddCircleInput
	if err := requireAll(
		field{"x", input.X, &in.X},
		field{"y", input.Y, &in.Y},
		field{"r", input.R, &in.R},
	); err != nil {
		return errorResult(err), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.AddCircle(h.session, in))
}

// HandleList handles the sketch_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return successResult(ops.List(h.session))
}

// HandleClear handles the sketch_clear tool call.
func (h *Handlers) HandleClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.Clear(h.session))
}

// HandleUndo handles the history_undo tool call.
func (h *Handlers) HandleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.Undo(h.session))
}

// HandleRedo handles the history_redo tool call.
func (h *Handlers) HandleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.Redo(h.session))
}

// HandleClearHistory handles the history_clear tool call.
func (h *Handlers) HandleClearHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return successResult(ops.ClearHistory(h.session))
}

// HandleHistory handles the history_list tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return successResult(ops.History(h.session))
}

// HandleCube handles the shape_cube tool call.
func (h *Handlers) HandleCube(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CubeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	size, err := required("size", input.Size)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.CreateCube(h.session, ops.CreateCubeInput{
		Size:      size,
		Divisions: input.Divisions,
	}))
}

// HandleSphere handles the shape_sphere tool call.
func (h *Handlers) HandleSphere(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SphereRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	radius, err := required("radius", input.Radius)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.CreateSphere(h.session, ops.CreateSphereInput{
		Radius:       radius,
		Divisions:    input.Divisions,
		LatDivisions: input.LatDivisions,
		LonDivisions: input.LonDivisions,
	}))
}

// HandleCubeDivisions handles the shape_cube_divisions tool call.
func (h *Handlers) HandleCubeDivisions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CubeDivisionsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	divisions, err := requiredInt("divisions", input.Divisions)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.SetCubeDivisions(h.session, ops.SetCubeDivisionsInput{Divisions: divisions}))
}

// HandleSphereDivisions handles the shape_sphere_divisions tool call.
func (h *Handlers) HandleSphereDivisions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SphereDivisionsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	lat, err := requiredInt("lat_divisions", input.LatDivisions)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	lon, err := requiredInt("lon_divisions", input.LonDivisions)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.SetSphereDivisions(h.session, ops.SetSphereDivisionsInput{
		LatDivisions: lat,
		LonDivisions: lon,
	}))
}

// HandleSaveMesh handles the mesh_save tool call.
func (h *Handlers) HandleSaveMesh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveMeshRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.SaveMesh(h.session, ops.SaveMeshInput{
		Path:      input.Path,
		Precision: input.Precision,
	}))
}

// HandleExportDXF handles the dxf_export tool call.
func (h *Handlers) HandleExportDXF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PathRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.ExportDXF(h.session, ops.ExportDXFInput{Path: input.Path}))
}

// HandleImportDXF handles the dxf_import tool call.
func (h *Handlers) HandleImportDXF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PathRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.ImportDXF(h.session, ops.ImportDXFInput{Path: input.Path}))
}

// HandleInspect handles the state_inspect tool call.
func (h *Handlers) HandleInspect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return toResult(ops.Inspect(h.session))
}

// field binds a required argument to its destination in an ops input.
type field struct {
	name string
	src  *float64
	dst  *float64
}

func requireAll(fields ...field) error {
	for _, f := range fields {
		v, err := required(f.name, f.src)
		if err != nil {
			return errors.NewInvalidRequest(err.Error())
		}
		*f.dst = v
	}
	return nil
}

// toResult converts an ops (output, error) pair into an MCP result.
func toResult(out any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var cadErr *errors.CadError
	if stderrors.As(err, &cadErr) {
		// Keep any wrapping context ("entity 3: ...") around the bare message.
		msg := strings.Replace(err.Error(), cadErr.Error(), cadErr.Message, 1)
		errorObj := map[string]any{
			"code":    cadErr.Code,
			"message": msg,
			"status":  cadErr.Status,
		}
		// INTERNAL details may carry raw system errors; keep them out of replies.
		if cadErr.Code != errors.ErrInternal && cadErr.Details != nil {
			errorObj["details"] = cadErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
