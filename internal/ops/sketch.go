package ops

import (
	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/sketch"
)

// AddPointInput contains parameters for the AddPoint operation.
type AddPointInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AddPoint appends a point to the sketch as one undoable step.
func AddPoint(s *Session, input AddPointInput) (*MutationOutput, error) {
	if err := firstError(
		checkFinite("x", input.X),
		checkFinite("y", input.Y),
	); err != nil {
		return nil, err
	}
	return s.add(sketch.Point(input.X, input.Y))
}

// AddLineInput contains parameters for the AddLine operation.
type AddLineInput struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// AddLine appends a line segment to the sketch as one undoable step.
func AddLine(s *Session, input AddLineInput) (*MutationOutput, error) {
	if err := firstError(
		checkFinite("x1", input.X1),
		checkFinite("y1", input.Y1),
		checkFinite("x2", input.X2),
		checkFinite("y2", input.Y2),
	); err != nil {
		return nil, err
	}
	return s.add(sketch.Line(input.X1, input.Y1, input.X2, input.Y2))
}

// AddCircleInput contains parameters for the AddCircle operation.
type AddCircleInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// AddCircle appends a circle to the sketch as one undoable step.
// The radius must be positive.
func AddCircle(s *Session, input AddCircleInput) (*MutationOutput, error) {
	if err := firstError(
		checkFinite("x", input.X),
		checkFinite("y", input.Y),
		checkFinite("r", input.R),
	); err != nil {
		return nil, err
	}
	if input.R <= 0 {
		return nil, errors.NewOutOfRange("r", input.R, "> 0")
	}
	return s.add(sketch.Circle(input.X, input.Y, input.R))
}

func (s *Session) add(e sketch.Entity) (*MutationOutput, error) {
	return s.mutate("add_"+string(e.Kind), func(doc *sketch.Document) error {
		_, err := doc.Add(e)
		return err
	})
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Entities []EntityItem `json:"entities"`
	Count    int          `json:"count"`
}

// List returns the sketch entities in insertion order.
func List(s *Session) *ListOutput {
	entities := s.doc.Entities()
	return &ListOutput{
		Entities: entityItems(entities),
		Count:    len(entities),
	}
}

// Clear removes every entity as one undoable step. Clearing an empty sketch
// is still recorded.
func Clear(s *Session) (*MutationOutput, error) {
	return s.mutate("clear", func(doc *sketch.Document) error {
		doc.Clear()
		return nil
	})
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
