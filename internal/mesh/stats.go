package mesh

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Stats summarises a triangulated shape.
type Stats struct {
	Facets      int        `json:"facets"`
	SurfaceArea float64    `json:"surface_area"`
	Volume      float64    `json:"volume"`
	Min         [3]float64 `json:"min"`
	Max         [3]float64 `json:"max"`
}

// ComputeStats returns facet count, bounding box, surface area and enclosed
// volume. Volume uses the signed tetrahedron method and assumes a closed,
// consistently wound mesh.
func ComputeStats(facets []Facet) Stats {
	st := Stats{Facets: len(facets)}
	if len(facets) == 0 {
		return st
	}

	lo := vec3.T{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := vec3.T{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	var area, volume float64
	for i := range facets {
		f := &facets[i]

		u := vec3.Sub(&f.V1, &f.V0)
		w := vec3.Sub(&f.V2, &f.V0)
		cross := vec3.Cross(&u, &w)
		area += cross.Length() / 2

		// V0 . (V1 x V2) is six times the signed volume of the tetrahedron
		// formed with the origin.
		c := vec3.Cross(&f.V1, &f.V2)
		volume += vec3.Dot(&f.V0, &c)

		for _, v := range [3]vec3.T{f.V0, f.V1, f.V2} {
			for k := 0; k < 3; k++ {
				lo[k] = math.Min(lo[k], v[k])
				hi[k] = math.Max(hi[k], v[k])
			}
		}
	}

	st.SurfaceArea = area
	st.Volume = math.Abs(volume / 6)
	st.Min = lo
	st.Max = hi
	return st
}
