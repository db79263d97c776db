package mesh

import (
	"fmt"
	"math"

	"github.com/hpungsan/sketchcad/internal/errors"
)

// Division bounds.
const (
	MinCubeDivisions   = 1
	MaxCubeDivisions   = 100
	MinSphereLatitude  = 2
	MinSphereLongitude = 3
	MaxSphereDivisions = 100
)

// ShapeKind identifies the primitive in the shape slot.
type ShapeKind string

const (
	ShapeNone   ShapeKind = "none"
	ShapeCube   ShapeKind = "cube"
	ShapeSphere ShapeKind = "sphere"
)

// Shape describes the single current 3D primitive.
// Cube uses Size and Divisions; Sphere uses Radius, LatDivisions and LonDivisions.
type Shape struct {
	Kind         ShapeKind `json:"kind"`
	Size         float64   `json:"size,omitempty"`
	Divisions    int       `json:"divisions,omitempty"`
	Radius       float64   `json:"radius,omitempty"`
	LatDivisions int       `json:"lat_divisions,omitempty"`
	LonDivisions int       `json:"lon_divisions,omitempty"`
}

// String describes the shape for logs and listings.
func (s Shape) String() string {
	switch s.Kind {
	case ShapeCube:
		return fmt.Sprintf("cube size=%g divisions=%d", s.Size, s.Divisions)
	case ShapeSphere:
		return fmt.Sprintf("sphere radius=%g lat=%d lon=%d", s.Radius, s.LatDivisions, s.LonDivisions)
	default:
		return "none"
	}
}

// FacetCount returns how many facets Facets will produce for s.
func (s Shape) FacetCount() int {
	switch s.Kind {
	case ShapeCube:
		return 6 * 2 * s.Divisions * s.Divisions
	case ShapeSphere:
		return 2*s.LonDivisions + (s.LatDivisions-2)*2*s.LonDivisions
	default:
		return 0
	}
}

// NewCube validates and returns a cube shape.
func NewCube(size float64, divisions int) (Shape, error) {
	if err := checkPositive("size", size); err != nil {
		return Shape{}, err
	}
	if divisions < MinCubeDivisions || divisions > MaxCubeDivisions {
		return Shape{}, errors.NewOutOfRange("divisions", divisions,
			fmt.Sprintf("in [%d, %d]", MinCubeDivisions, MaxCubeDivisions))
	}
	return Shape{Kind: ShapeCube, Size: size, Divisions: divisions}, nil
}

// NewSphere validates and returns a sphere shape.
func NewSphere(radius float64, latDivisions, lonDivisions int) (Shape, error) {
	if err := checkPositive("radius", radius); err != nil {
		return Shape{}, err
	}
	if latDivisions < MinSphereLatitude || latDivisions > MaxSphereDivisions {
		return Shape{}, errors.NewOutOfRange("lat_divisions", latDivisions,
			fmt.Sprintf("in [%d, %d]", MinSphereLatitude, MaxSphereDivisions))
	}
	if lonDivisions < MinSphereLongitude || lonDivisions > MaxSphereDivisions {
		return Shape{}, errors.NewOutOfRange("lon_divisions", lonDivisions,
			fmt.Sprintf("in [%d, %d]", MinSphereLongitude, MaxSphereDivisions))
	}
	return Shape{Kind: ShapeSphere, Radius: radius, LatDivisions: latDivisions, LonDivisions: lonDivisions}, nil
}

func checkPositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return errors.NewOutOfRange(field, v, "a finite number > 0")
	}
	return nil
}

// Generator owns the shape slot. Setting a shape of either kind replaces
// whatever was there. The zero value holds no shape.
type Generator struct {
	shape Shape
}

// NewGenerator returns a generator with an empty shape slot.
func NewGenerator() *Generator {
	return &Generator{shape: Shape{Kind: ShapeNone}}
}

// SetCube replaces the slot with a cube. The slot is unchanged on error.
func (g *Generator) SetCube(size float64, divisions int) error {
	s, err := NewCube(size, divisions)
	if err != nil {
		return err
	}
	g.shape = s
	return nil
}

// SetSphere replaces the slot with a sphere. The slot is unchanged on error.
func (g *Generator) SetSphere(radius float64, latDivisions, lonDivisions int) error {
	s, err := NewSphere(radius, latDivisions, lonDivisions)
	if err != nil {
		return err
	}
	g.shape = s
	return nil
}

// Shape returns the current slot content.
func (g *Generator) Shape() Shape {
	if g.shape.Kind == "" {
		return Shape{Kind: ShapeNone}
	}
	return g.shape
}

// HasShape reports whether a cube or sphere is set.
func (g *Generator) HasShape() bool {
	k := g.Shape().Kind
	return k == ShapeCube || k == ShapeSphere
}

// Facets triangulates the current shape.
// Returns ErrNoShape when the slot is empty.
func (g *Generator) Facets() ([]Facet, error) {
	return Triangulate(g.Shape())
}
