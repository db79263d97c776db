package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/hpungsan/sketchcad/internal/errors"
)

// SolidName is the name written in the solid/endsolid lines.
const SolidName = "shape"

// DefaultPrecision is the number of digits written after the decimal point.
const DefaultPrecision = 6

// WriteSTL triangulates the current shape and writes it as ASCII STL.
// The shape is validated before anything is written, so a NoShape error
// leaves w untouched. Returns the number of facets written.
func (g *Generator) WriteSTL(w io.Writer, precision int) (int, error) {
	facets, err := g.Facets()
	if err != nil {
		return 0, err
	}
	if err := WriteFacets(w, facets, precision); err != nil {
		return 0, err
	}
	return len(facets), nil
}

// WriteFacets writes facets in the ASCII STL grammar:
//
//	solid shape
//	  facet normal nx ny nz
//	    outer loop
//	      vertex x y z
//	      vertex x y z
//	      vertex x y z
//	    endloop
//	  endfacet
//	endsolid shape
func WriteFacets(w io.Writer, facets []Facet, precision int) error {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	bw := bufio.NewWriter(w)
	sw := &stlWriter{w: bw, prec: precision}

	sw.printf("solid %s\n", SolidName)
	for i := range facets {
		f := &facets[i]
		sw.printf("  facet normal %s\n", sw.vec(f.Normal))
		sw.printf("    outer loop\n")
		sw.printf("      vertex %s\n", sw.vec(f.V0))
		sw.printf("      vertex %s\n", sw.vec(f.V1))
		sw.printf("      vertex %s\n", sw.vec(f.V2))
		sw.printf("    endloop\n")
		sw.printf("  endfacet\n")
	}
	sw.printf("endsolid %s\n", SolidName)

	if sw.err != nil {
		return errors.NewIO("write", "stl", sw.err)
	}
	if err := bw.Flush(); err != nil {
		return errors.NewIO("write", "stl", err)
	}
	return nil
}

// stlWriter keeps the first write error so the grammar above reads linearly.
type stlWriter struct {
	w    *bufio.Writer
	prec int
	err  error
}

func (s *stlWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *stlWriter) vec(v vec3.T) string {
	return s.num(v[0]) + " " + s.num(v[1]) + " " + s.num(v[2])
}

func (s *stlWriter) num(f float64) string {
	out := strconv.FormatFloat(f, 'f', s.prec, 64)
	// Values that round to zero print without a sign.
	if strings.HasPrefix(out, "-") && strings.Trim(out[1:], "0.") == "" {
		return out[1:]
	}
	return out
}
