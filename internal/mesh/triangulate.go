package mesh

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/hpungsan/sketchcad/internal/errors"
)

// Facet is one triangle with its unit normal. Vertices wind counter-clockwise
// when seen from outside the solid.
type Facet struct {
	Normal vec3.T
	V0     vec3.T
	V1     vec3.T
	V2     vec3.T
}

// newFacet builds a facet and derives its normal from (v1-v0) x (v2-v0).
// A zero-length cross product leaves the normal as the zero vector.
func newFacet(v0, v1, v2 vec3.T) Facet {
	u := vec3.Sub(&v1, &v0)
	w := vec3.Sub(&v2, &v0)
	n := vec3.Cross(&u, &w)
	if n.LengthSqr() != 0 {
		n.Normalize()
	}
	return Facet{Normal: n, V0: v0, V1: v1, V2: v2}
}

// Triangulate converts a shape into facets.
func Triangulate(s Shape) ([]Facet, error) {
	switch s.Kind {
	case ShapeCube:
		return cubeFacets(s.Size, s.Divisions), nil
	case ShapeSphere:
		return sphereFacets(s.Radius, s.LatDivisions, s.LonDivisions), nil
	default:
		return nil, errors.NewNoShape()
	}
}

// cubeFace is one side of an axis-aligned cube: the outward normal n and two
// in-plane axes with u x v = n.
type cubeFace struct {
	n, u, v vec3.T
}

var cubeFaces = [6]cubeFace{
	{n: vec3.UnitX, u: vec3.UnitY, v: vec3.UnitZ},
	{n: negate(vec3.UnitX), u: vec3.UnitZ, v: vec3.UnitY},
	{n: vec3.UnitY, u: vec3.UnitZ, v: vec3.UnitX},
	{n: negate(vec3.UnitY), u: vec3.UnitX, v: vec3.UnitZ},
	{n: vec3.UnitZ, u: vec3.UnitX, v: vec3.UnitY},
	{n: negate(vec3.UnitZ), u: vec3.UnitY, v: vec3.UnitX},
}

func negate(v vec3.T) vec3.T {
	return vec3.T{-v[0], -v[1], -v[2]}
}

// cubeFacets emits 2*divisions^2 triangles per face of a cube centred at the
// origin with edge length size.
func cubeFacets(size float64, divisions int) []Facet {
	half := size / 2
	step := size / float64(divisions)
	facets := make([]Facet, 0, 12*divisions*divisions)

	// at maps face-local grid coordinates to a point on the face plane.
	at := func(f cubeFace, a, b float64) vec3.T {
		return vec3.T{
			f.n[0]*half + f.u[0]*a + f.v[0]*b,
			f.n[1]*half + f.u[1]*a + f.v[1]*b,
			f.n[2]*half + f.u[2]*a + f.v[2]*b,
		}
	}

	for _, f := range cubeFaces {
		for i := 0; i < divisions; i++ {
			a0 := -half + float64(i)*step
			a1 := -half + float64(i+1)*step
			for j := 0; j < divisions; j++ {
				b0 := -half + float64(j)*step
				b1 := -half + float64(j+1)*step

				p00 := at(f, a0, b0)
				p10 := at(f, a1, b0)
				p11 := at(f, a1, b1)
				p01 := at(f, a0, b1)

				facets = append(facets,
					newFacet(p00, p10, p11),
					newFacet(p00, p11, p01),
				)
			}
		}
	}
	return facets
}

// spherePoint returns the point at polar angle theta (from +Y) and azimuth phi.
func spherePoint(radius, theta, phi float64) vec3.T {
	return vec3.T{
		radius * math.Sin(theta) * math.Cos(phi),
		radius * math.Cos(theta),
		radius * math.Sin(theta) * math.Sin(phi),
	}
}

// sphereFacets emits a UV sphere. The first and last latitude rows are
// triangle fans around the poles; every other row gives two triangles per quad.
func sphereFacets(radius float64, latDivisions, lonDivisions int) []Facet {
	facets := make([]Facet, 0, 2*lonDivisions*(latDivisions-1))

	for i := 0; i < latDivisions; i++ {
		theta0 := math.Pi * float64(i) / float64(latDivisions)
		theta1 := math.Pi * float64(i+1) / float64(latDivisions)

		for j := 0; j < lonDivisions; j++ {
			phi0 := 2 * math.Pi * float64(j) / float64(lonDivisions)
			phi1 := 2 * math.Pi * float64(j+1) / float64(lonDivisions)

			a := spherePoint(radius, theta0, phi0)
			b := spherePoint(radius, theta1, phi0)
			c := spherePoint(radius, theta1, phi1)
			d := spherePoint(radius, theta0, phi1)

			switch {
			case i == 0:
				// a and d are the north pole.
				facets = append(facets, newFacet(a, c, b))
			case i == latDivisions-1:
				// b and c are the south pole.
				facets = append(facets, newFacet(a, d, c))
			default:
				facets = append(facets,
					newFacet(a, c, b),
					newFacet(a, d, c),
				)
			}
		}
	}
	return facets
}
