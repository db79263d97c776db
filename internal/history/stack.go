package history

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/sketchcad/internal/sketch"
)

// Snapshot is an immutable copy of a document's entities at one instant.
type Snapshot struct {
	ID       ulid.ULID
	TakenAt  time.Time
	entities []sketch.Entity
}

// capture copies the current content of doc.
func capture(doc *sketch.Document) Snapshot {
	id := ulid.Make()
	return Snapshot{
		ID:       id,
		TakenAt:  ulid.Time(id.Time()),
		entities: doc.Entities(),
	}
}

// Entities returns a copy of the captured entities.
func (s Snapshot) Entities() []sketch.Entity {
	out := make([]sketch.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Len returns the number of captured entities.
func (s Snapshot) Len() int {
	return len(s.entities)
}

// Stack is a LIFO of snapshots with a fixed capacity.
type Stack struct {
	items    []Snapshot
	capacity int
}

// NewStack creates an empty stack holding at most capacity snapshots.
func NewStack(capacity int) *Stack {
	return &Stack{
		items:    make([]Snapshot, 0, capacity),
		capacity: capacity,
	}
}

// Push adds s on top. When the stack is full the push is dropped and
// Push returns false; existing entries are kept.
func (s *Stack) Push(snap Snapshot) bool {
	if s.Len() >= s.Cap() {
		return false
	}
	s.items = append(s.items, snap)
	return true
}

// Pop removes and returns the top snapshot.
func (s *Stack) Pop() (Snapshot, bool) {
	if len(s.items) == 0 {
		return Snapshot{}, false
	}
	top := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = Snapshot{}
	s.items = s.items[:len(s.items)-1]
	return top, true
}

// Len returns the number of snapshots held.
func (s *Stack) Len() int {
	return len(s.items)
}

// Cap returns the stack capacity.
func (s *Stack) Cap() int {
	return s.capacity
}

// Clear drops every snapshot.
func (s *Stack) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// List returns the snapshots newest first.
func (s *Stack) List() []Snapshot {
	out := make([]Snapshot, len(s.items))
	for i, snap := range s.items {
		out[len(s.items)-1-i] = snap
	}
	return out
}
