// Package dxf reads and writes the small DXF subset used for 2D sketches.
//
// A file is a flat sequence of lines. "0" starts a new entity and the line
// after it names the entity type. Inside an entity, lines come in pairs: a
// group code followed by its value, and the code must be an integer.
//
// The first ENDSEC ends the scan, whatever section it closes. A file whose
// ENTITIES section comes after a HEADER or TABLES section therefore yields
// no entities; files written by Write start with ENTITIES.
//
//	code  POINT  LINE     CIRCLE
//	10    x      start x  centre x
//	20    y      start y  centre y
//	11           end x
//	21           end y
//	40                    radius
//
// Group codes that an entity type does not use are skipped together with
// their value, as are entity types other than POINT, LINE and CIRCLE.
package dxf

import "github.com/hpungsan/sketchcad/internal/sketch"

// Markers of the subset grammar.
const (
	codeEntity   = "0"
	codeName     = "2"
	markEndSec   = "ENDSEC"
	markSection  = "SECTION"
	markEntities = "ENTITIES"
	markEOF      = "EOF"
)

// accum collects group-code values for the entity being read.
type accum struct {
	x, y, x2, y2, r float64
}

// entityType describes how one DXF entity type maps onto a sketch entity.
type entityType struct {
	name   string
	fields map[string]func(*accum, float64)
	build  func(accum) sketch.Entity
}

func setX(a *accum, v float64)  { a.x = v }
func setY(a *accum, v float64)  { a.y = v }
func setX2(a *accum, v float64) { a.x2 = v }
func setY2(a *accum, v float64) { a.y2 = v }
func setR(a *accum, v float64)  { a.r = v }

// registry maps DXF type names to their handlers.
var registry = map[string]*entityType{}

// kinds maps sketch kinds back to their DXF type for writing.
var kinds = map[sketch.Kind]*entityType{}

func register(kind sketch.Kind, et *entityType) {
	registry[et.name] = et
	kinds[kind] = et
}

func init() {
	register(sketch.KindPoint, &entityType{
		name:   "POINT",
		fields: map[string]func(*accum, float64){"10": setX, "20": setY},
		build:  func(a accum) sketch.Entity { return sketch.Point(a.x, a.y) },
	})
	register(sketch.KindLine, &entityType{
		name:   "LINE",
		fields: map[string]func(*accum, float64){"10": setX, "20": setY, "11": setX2, "21": setY2},
		build:  func(a accum) sketch.Entity { return sketch.Line(a.x, a.y, a.x2, a.y2) },
	})
	register(sketch.KindCircle, &entityType{
		name:   "CIRCLE",
		fields: map[string]func(*accum, float64){"10": setX, "20": setY, "40": setR},
		build:  func(a accum) sketch.Entity { return sketch.Circle(a.x, a.y, a.r) },
	})
}
