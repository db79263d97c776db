package dxf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/sketch"
)

// Write emits entities in document order inside one ENTITIES section.
// Numbers use the shortest decimal form that parses back to the same value.
func Write(w io.Writer, entities []sketch.Entity) error {
	bw := bufio.NewWriter(w)
	pw := &pairWriter{w: bw}

	pw.pair(codeEntity, markSection)
	pw.pair(codeName, markEntities)
	for i, e := range entities {
		et, ok := kinds[e.Kind]
		if !ok {
			return errors.NewInvalidRequest(fmt.Sprintf("entity %d: unknown kind %q", i, string(e.Kind)))
		}
		pw.pair(codeEntity, et.name)
		switch e.Kind {
		case sketch.KindPoint:
			pw.num("10", e.X)
			pw.num("20", e.Y)
		case sketch.KindLine:
			pw.num("10", e.X)
			pw.num("20", e.Y)
			pw.num("11", e.X2)
			pw.num("21", e.Y2)
		case sketch.KindCircle:
			pw.num("10", e.X)
			pw.num("20", e.Y)
			pw.num("40", e.R)
		}
	}
	pw.pair(codeEntity, markEndSec)
	pw.pair(codeEntity, markEOF)

	if pw.err != nil {
		return errors.NewIO("write", "dxf", pw.err)
	}
	if err := bw.Flush(); err != nil {
		return errors.NewIO("write", "dxf", err)
	}
	return nil
}

// pairWriter writes code/value line pairs and keeps the first error.
type pairWriter struct {
	w   *bufio.Writer
	err error
}

func (p *pairWriter) pair(code, value string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s\n%s\n", code, value)
}

func (p *pairWriter) num(code string, v float64) {
	p.pair(code, strconv.FormatFloat(v, 'f', -1, 64))
}
