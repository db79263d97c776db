package sketch

import "fmt"

// Kind identifies which primitive an Entity holds.
type Kind string

const (
	KindPoint  Kind = "point"
	KindLine   Kind = "line"
	KindCircle Kind = "circle"
)

// Entity is one 2D sketch primitive. Which fields are meaningful depends on Kind:
//
//	point:  X, Y
//	line:   X, Y (start), X2, Y2 (end)
//	circle: X, Y (centre), R
//
// Unused fields are zero, so two entities compare equal with == exactly when
// they describe the same primitive.
type Entity struct {
	Kind Kind    `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	X2   float64 `json:"x2,omitempty"`
	Y2   float64 `json:"y2,omitempty"`
	R    float64 `json:"r,omitempty"`
}

// Point returns a point entity.
func Point(x, y float64) Entity {
	return Entity{Kind: KindPoint, X: x, Y: y}
}

// Line returns a line entity from (x1, y1) to (x2, y2).
func Line(x1, y1, x2, y2 float64) Entity {
	return Entity{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2}
}

// Circle returns a circle entity centred at (x, y) with radius r.
func Circle(x, y, r float64) Entity {
	return Entity{Kind: KindCircle, X: x, Y: y, R: r}
}

// String renders the entity the way the sketch listing shows it.
func (e Entity) String() string {
	switch e.Kind {
	case KindPoint:
		return fmt.Sprintf("Point at (%.2f, %.2f)", e.X, e.Y)
	case KindLine:
		return fmt.Sprintf("Line from (%.2f, %.2f) to (%.2f, %.2f)", e.X, e.Y, e.X2, e.Y2)
	case KindCircle:
		return fmt.Sprintf("Circle at (%.2f, %.2f) with radius %.2f", e.X, e.Y, e.R)
	default:
		return fmt.Sprintf("Unknown entity %q", string(e.Kind))
	}
}
