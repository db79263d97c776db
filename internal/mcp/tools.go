package mcp

import "github.com/mark3labs/mcp-go/mcp"

var addPointToolDef = mcp.NewTool("sketch_add_point",
	mcp.WithDescription("Append a point to the 2D sketch. Undoable."),
	mcp.WithNumber("x", mcp.Required(), mcp.Description("X coordinate")),
	mcp.WithNumber("y", mcp.Required(), mcp.Description("Y coordinate")),
)

var addLineToolDef = mcp.NewTool("sketch_add_line",
	mcp.WithDescription("Append a line segment to the 2D sketch. Undoable."),
	mcp.WithNumber("x1", mcp.Required(), mcp.Description("Start X")),
	mcp.WithNumber("y1", mcp.Required(), mcp.Description("Start Y")),
	mcp.WithNumber("x2", mcp.Required(), mcp.Description("End X")),
	mcp.WithNumber("y2", mcp.Required(), mcp.Description("End Y")),
)

var addCircleToolDef = mcp.NewTool("sketch_add_circle",
	mcp.WithDescription("Append a circle to the 2D sketch. Undoable."),
	mcp.WithNumber("x", mcp.Required(), mcp.Description("Centre X")),
	mcp.WithNumber("y", mcp.Required(), mcp.Description("Centre Y")),
	mcp.WithNumber("r", mcp.Required(), mcp.Description("Radius, > 0")),
)

var listToolDef = mcp.NewTool("sketch_list",
	mcp.WithDescription("List sketch entities in insertion order."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var clearToolDef = mcp.NewTool("sketch_clear",
	mcp.WithDescription("Remove every sketch entity. Undoable."),
)

var undoToolDef = mcp.NewTool("history_undo",
	mcp.WithDescription("Undo the most recent sketch mutation."),
)

var redoToolDef = mcp.NewTool("history_redo",
	mcp.WithDescription("Redo the most recently undone sketch mutation."),
)

var clearHistoryToolDef = mcp.NewTool("history_clear",
	mcp.WithDescription("Drop all undo and redo history. The sketch is unchanged."),
	mcp.WithDestructiveHintAnnotation(true),
)

var historyToolDef = mcp.NewTool("history_list",
	mcp.WithDescription("List undo and redo snapshots (id, time, entity count), newest first."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var cubeToolDef = mcp.NewTool("shape_cube",
	mcp.WithDescription("Replace the 3D shape with a cube centred on the origin."),
	mcp.WithNumber("size", mcp.Required(), mcp.Description("Edge length, > 0")),
	mcp.WithNumber("divisions", mcp.Description("Grid cells per face edge, 1..100 (default: last used, initially from config)"), mcp.Min(1), mcp.Max(100)),
)

var sphereToolDef = mcp.NewTool("shape_sphere",
	mcp.WithDescription("Replace the 3D shape with a UV sphere centred on the origin."),
	mcp.WithNumber("radius", mcp.Required(), mcp.Description("Radius, > 0")),
	mcp.WithNumber("divisions", mcp.Description("Latitude and longitude bands, 3..100; cannot be combined with lat/lon_divisions"), mcp.Min(3), mcp.Max(100)),
	mcp.WithNumber("lat_divisions", mcp.Description("Latitude bands, 2..100"), mcp.Min(2), mcp.Max(100)),
	mcp.WithNumber("lon_divisions", mcp.Description("Longitude bands, 3..100"), mcp.Min(3), mcp.Max(100)),
)

var cubeDivisionsToolDef = mcp.NewTool("shape_cube_divisions",
	mcp.WithDescription("Set the divisions later cubes use when none are given. The current shape is unchanged."),
	mcp.WithNumber("divisions", mcp.Required(), mcp.Description("Grid cells per face edge, 1..100"), mcp.Min(1), mcp.Max(100)),
)

var sphereDivisionsToolDef = mcp.NewTool("shape_sphere_divisions",
	mcp.WithDescription("Set the latitude and longitude bands later spheres use when none are given. The current shape is unchanged."),
	mcp.WithNumber("lat_divisions", mcp.Required(), mcp.Description("Latitude bands, 2..100"), mcp.Min(2), mcp.Max(100)),
	mcp.WithNumber("lon_divisions", mcp.Required(), mcp.Description("Longitude bands, 3..100"), mcp.Min(3), mcp.Max(100)),
)

var saveMeshToolDef = mcp.NewTool("mesh_save",
	mcp.WithDescription("Triangulate the current shape and write it as an ASCII STL file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Output path ending in .stl")),
	mcp.WithNumber("precision", mcp.Description("Digits after the decimal point, 1..17 (default from config)"), mcp.Min(1), mcp.Max(17)),
)

var exportDXFToolDef = mcp.NewTool("dxf_export",
	mcp.WithDescription("Write every sketch entity to a DXF file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Output path ending in .dxf")),
)

var importDXFToolDef = mcp.NewTool("dxf_import",
	mcp.WithDescription("Append the POINT, LINE and CIRCLE entities of a DXF file to the sketch as one undoable step."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Input path ending in .dxf")),
)

var inspectToolDef = mcp.NewTool("state_inspect",
	mcp.WithDescription("Report sketch entities, history depths, the current shape and its mesh statistics."),
	mcp.WithReadOnlyHintAnnotation(true),
)
