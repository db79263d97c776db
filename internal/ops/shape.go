package ops

import (
	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/mesh"
)

// ShapeOutput reports the shape now held in the slot.
type ShapeOutput struct {
	Shape  mesh.Shape `json:"shape"`
	Facets int        `json:"facets"`
}

// CreateCubeInput contains parameters for the CreateCube operation.
type CreateCubeInput struct {
	Size      float64 `json:"size"`
	Divisions *int    `json:"divisions,omitempty"` // default: current cube divisions
}

// CreateCube replaces the shape slot with a cube centred on the origin.
// Explicit divisions become the default for later cubes.
func CreateCube(s *Session, input CreateCubeInput) (*ShapeOutput, error) {
	divisions := s.cubeDivisions
	if input.Divisions != nil {
		divisions = *input.Divisions
	}
	if err := s.shape.SetCube(input.Size, divisions); err != nil {
		return nil, err
	}
	s.cubeDivisions = divisions
	return s.shapeReplaced(), nil
}

// CreateSphereInput contains parameters for the CreateSphere operation.
// Divisions sets both latitude and longitude and cannot be combined with
// LatDivisions or LonDivisions.
type CreateSphereInput struct {
	Radius       float64 `json:"radius"`
	Divisions    *int    `json:"divisions,omitempty"`
	LatDivisions *int    `json:"lat_divisions,omitempty"`
	LonDivisions *int    `json:"lon_divisions,omitempty"`
}

// CreateSphere replaces the shape slot with a UV sphere centred on the origin.
// Division counts not given use the current sphere divisions; counts that are
// given become the default for later spheres.
func CreateSphere(s *Session, input CreateSphereInput) (*ShapeOutput, error) {
	lat, lon := s.latDivisions, s.lonDivisions

	if input.Divisions != nil {
		if input.LatDivisions != nil || input.LonDivisions != nil {
			return nil, errors.NewInvalidRequest("divisions cannot be combined with lat_divisions or lon_divisions")
		}
		if err := checkRange("divisions", *input.Divisions, mesh.MinSphereLongitude, mesh.MaxSphereDivisions); err != nil {
			return nil, err
		}
		lat, lon = *input.Divisions, *input.Divisions
	}
	if input.LatDivisions != nil {
		lat = *input.LatDivisions
	}
	if input.LonDivisions != nil {
		lon = *input.LonDivisions
	}

	if err := s.shape.SetSphere(input.Radius, lat, lon); err != nil {
		return nil, err
	}
	s.latDivisions, s.lonDivisions = lat, lon
	return s.shapeReplaced(), nil
}

func (s *Session) shapeReplaced() *ShapeOutput {
	shape := s.shape.Shape()
	s.logger.Info("shape replaced", "shape", shape.String(), "facets", shape.FacetCount())
	return &ShapeOutput{
		Shape:  shape,
		Facets: shape.FacetCount(),
	}
}

// DivisionsOutput reports the division counts later create calls default to.
type DivisionsOutput struct {
	CubeDivisions int `json:"cube_divisions"`
	LatDivisions  int `json:"lat_divisions"`
	LonDivisions  int `json:"lon_divisions"`
}

func (s *Session) divisions() DivisionsOutput {
	return DivisionsOutput{
		CubeDivisions: s.cubeDivisions,
		LatDivisions:  s.latDivisions,
		LonDivisions:  s.lonDivisions,
	}
}

// SetCubeDivisionsInput contains parameters for the SetCubeDivisions operation.
type SetCubeDivisionsInput struct {
	Divisions int `json:"divisions"`
}

// SetCubeDivisions changes the default cube divisions. The current shape is
// not regenerated.
func SetCubeDivisions(s *Session, input SetCubeDivisionsInput) (*DivisionsOutput, error) {
	if err := checkRange("divisions", input.Divisions, mesh.MinCubeDivisions, mesh.MaxCubeDivisions); err != nil {
		return nil, err
	}
	s.cubeDivisions = input.Divisions
	s.logger.Debug("cube divisions set", "divisions", input.Divisions)
	out := s.divisions()
	return &out, nil
}

// SetSphereDivisionsInput contains parameters for the SetSphereDivisions operation.
type SetSphereDivisionsInput struct {
	LatDivisions int `json:"lat_divisions"`
	LonDivisions int `json:"lon_divisions"`
}

// SetSphereDivisions changes the default sphere divisions. The current shape
// is not regenerated.
func SetSphereDivisions(s *Session, input SetSphereDivisionsInput) (*DivisionsOutput, error) {
	if err := checkRange("lat_divisions", input.LatDivisions, mesh.MinSphereLatitude, mesh.MaxSphereDivisions); err != nil {
		return nil, err
	}
	if err := checkRange("lon_divisions", input.LonDivisions, mesh.MinSphereLongitude, mesh.MaxSphereDivisions); err != nil {
		return nil, err
	}
	s.latDivisions, s.lonDivisions = input.LatDivisions, input.LonDivisions
	s.logger.Debug("sphere divisions set", "lat", input.LatDivisions, "lon", input.LonDivisions)
	out := s.divisions()
	return &out, nil
}
