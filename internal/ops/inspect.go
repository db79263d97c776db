package ops

import (
	"github.com/hpungsan/sketchcad/internal/mesh"
)

// InspectOutput is a full view of the session state.
type InspectOutput struct {
	Entities  []EntityItem    `json:"entities"`
	Count     int             `json:"count"`
	UndoDepth int             `json:"undo_depth"`
	RedoDepth int             `json:"redo_depth"`
	Shape     mesh.Shape      `json:"shape"`
	Defaults  DivisionsOutput `json:"defaults"`
	Mesh      *mesh.Stats     `json:"mesh,omitempty"` // nil when no shape is set
}

// Inspect reports the sketch, history depths, the current shape and the
// default division counts. When a
// shape is set it is triangulated to report facet count, bounding box,
// surface area and enclosed volume.
func Inspect(s *Session) (*InspectOutput, error) {
	entities := s.doc.Entities()
	out := &InspectOutput{
		Entities:  entityItems(entities),
		Count:     len(entities),
		UndoDepth: s.history.UndoDepth(),
		RedoDepth: s.history.RedoDepth(),
		Shape:     s.shape.Shape(),
		Defaults:  s.divisions(),
	}

	if !s.shape.HasShape() {
		return out, nil
	}
	facets, err := s.shape.Facets()
	if err != nil {
		return nil, err
	}
	stats := mesh.ComputeStats(facets)
	out.Mesh = &stats
	return out, nil
}
