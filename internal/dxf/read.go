package dxf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/sketch"
)

// valueStatus classifies a group-code value line.
type valueStatus int

const (
	valueOK valueStatus = iota
	valueMissing
	valueMalformed
)

// parseValue parses a numeric value line. ok is false at end of input.
func parseValue(line string, ok bool) (float64, valueStatus) {
	if !ok || line == "" {
		return 0, valueMissing
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, valueMalformed
	}
	return v, valueOK
}

// lineReader yields trimmed lines and tracks the 1-based line number.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func (lr *lineReader) next() (string, bool) {
	if !lr.sc.Scan() {
		return "", false
	}
	lr.line++
	return strings.TrimSpace(lr.sc.Text()), true
}

// Read parses a DXF stream into sketch entities in file order.
// A group code that is not an integer, or a missing or non-numeric value
// after a recognised group code, is a FORMAT_ERROR carrying the line number;
// nothing is returned in that case.
func Read(r io.Reader) ([]sketch.Entity, error) {
	lr := &lineReader{sc: bufio.NewScanner(r)}

	var (
		out     []sketch.Entity
		current *entityType
		inside  bool
		acc     accum
	)

	flush := func() {
		if current != nil {
			out = append(out, current.build(acc))
		}
		current = nil
		acc = accum{}
	}

scan:
	for {
		line, ok := lr.next()
		if !ok {
			break
		}

		switch {
		case line == markEndSec:
			break scan

		case line == codeEntity:
			flush()
			name, ok := lr.next()
			if !ok || name == markEndSec {
				break scan
			}
			current = registry[name]
			inside = true
			continue

		case !inside:
			continue
		}

		// line is a group code; the next line is its value. A code that is
		// not an integer means the pairing is off.
		n, err := strconv.Atoi(line)
		if err != nil {
			return nil, errors.NewFormat(lr.line, fmt.Sprintf("invalid group code %q", line))
		}
		code := strconv.Itoa(n)
		raw, ok := lr.next()
		var set func(*accum, float64)
		if current != nil {
			set = current.fields[code]
		}
		if set == nil {
			if !ok {
				break scan
			}
			continue
		}

		v, status := parseValue(raw, ok)
		switch status {
		case valueMissing:
			at := lr.line
			if !ok {
				at++
			}
			return nil, errors.NewFormat(at,
				fmt.Sprintf("missing value for group code %s in %s", code, current.name))
		case valueMalformed:
			return nil, errors.NewFormat(lr.line,
				fmt.Sprintf("invalid number %q for group code %s in %s", raw, code, current.name))
		}
		set(&acc, v)
	}

	if err := lr.sc.Err(); err != nil {
		return nil, errors.NewIO("read", "dxf", err)
	}

	flush()
	return out, nil
}
