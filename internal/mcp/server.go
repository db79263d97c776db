package mcp

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/sketchcad/internal/ops"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"sketch", "history", "shape", "mesh", "dxf", "state"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"sketch_add_point": {
		def:     addPointToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAddPoint },
	},
	"sketch_add_line": {
		def:     addLineToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAddLine },
	},
	"sketch_add_circle": {
		def:     addCircleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAddCircle },
	},
	"sketch_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"sketch_clear": {
		def:     clearToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClear },
	},
	"history_undo": {
		def:     undoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUndo },
	},
	"history_redo": {
		def:     redoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRedo },
	},
	"history_clear": {
		def:     clearHistoryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClearHistory },
	},
	"history_list": {
		def:     historyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistory },
	},
	"shape_cube": {
		def:     cubeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCube },
	},
	"shape_sphere": {
		def:     sphereToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSphere },
	},
	"shape_cube_divisions": {
		def:     cubeDivisionsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCubeDivisions },
	},
	"shape_sphere_divisions": {
		def:     sphereDivisionsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSphereDivisions },
	},
	"mesh_save": {
		def:     saveMeshToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSaveMesh },
	},
	"dxf_export": {
		def:     exportDXFToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExportDXF },
	},
	"dxf_import": {
		def:     importDXFToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImportDXF },
	},
	"state_inspect": {
		def:     inspectToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInspect },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "sketch_add_point" → "sketch").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server with sketchcad tools bound to session.
// Tools listed in the session config's DisabledTools or belonging to its
// DisabledTypes are excluded from registration.
func NewServer(session *ops.Session, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"sketchcad",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(session)
	cfg := session.Config()

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(session *ops.Session, version string) error {
	return server.ServeStdio(NewServer(session, version))
}
