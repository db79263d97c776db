package sketch

import (
	"github.com/hpungsan/sketchcad/internal/errors"
)

// Capacity is the maximum number of entities a Document holds.
const Capacity = 1000

// Document is an ordered, capacity-bounded collection of sketch entities.
// Order is insertion order. The zero value is an empty document ready to use.
type Document struct {
	entities []Entity
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{entities: make([]Entity, 0, 16)}
}

// Add appends e and returns the new entity count.
// Returns ErrCapacityExceeded (document unchanged) when the document is full.
func (d *Document) Add(e Entity) (int, error) {
	if len(d.entities) >= Capacity {
		return len(d.entities), errors.NewCapacityExceeded(Capacity, len(d.entities)+1)
	}
	d.entities = append(d.entities, e)
	return len(d.entities), nil
}

// Entities returns a copy of the entities in insertion order.
func (d *Document) Entities() []Entity {
	out := make([]Entity, len(d.entities))
	copy(out, d.entities)
	return out
}

// Len returns the number of entities.
func (d *Document) Len() int {
	return len(d.entities)
}

// Remaining returns how many more entities fit.
func (d *Document) Remaining() int {
	return Capacity - len(d.entities)
}

// Clear removes every entity.
func (d *Document) Clear() {
	d.entities = d.entities[:0]
}

// ReplaceAll swaps the whole content for a copy of entities.
// Input longer than Capacity is truncated to the first Capacity entries;
// restore paths only ever hand in content that was once a valid document.
func (d *Document) ReplaceAll(entities []Entity) {
	if len(entities) > Capacity {
		entities = entities[:Capacity]
	}
	d.entities = append(d.entities[:0], entities...)
}
