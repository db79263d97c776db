// Package history keeps bounded undo/redo stacks of whole-document snapshots.
//
// Overflow policy: a push onto a full stack is dropped. Older snapshots are
// never evicted, so once the undo stack holds Depth entries further mutations
// are applied but cannot be undone. This is not an error; callers learn about
// it through the undoable flag returned by Mutate.
package history

import (
	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/sketch"
)

// Depth is the capacity of each history stack.
const Depth = 100

// Manager owns the undo and redo stacks for one sketch document.
type Manager struct {
	undo *Stack
	redo *Stack
}

// NewManager returns a manager with empty stacks of capacity Depth.
func NewManager() *Manager {
	return &Manager{
		undo: NewStack(Depth),
		redo: NewStack(Depth),
	}
}

// SnapshotBeforeMutation records the current document on the undo stack and
// invalidates redo history. The redo stack is cleared even when the undo push
// is dropped. Returns false if the push was dropped.
func (m *Manager) SnapshotBeforeMutation(doc *sketch.Document) bool {
	return m.commit(capture(doc))
}

// Mutate is SnapshotBeforeMutation composed with the mutation itself: fn runs
// as one undoable step. The snapshot is taken before fn runs but committed
// only if fn succeeds; on failure the document is restored and both stacks
// are left as they were.
func (m *Manager) Mutate(doc *sketch.Document, fn func(*sketch.Document) error) (bool, error) {
	before := capture(doc)
	if err := fn(doc); err != nil {
		doc.ReplaceAll(before.entities)
		return false, err
	}
	return m.commit(before), nil
}

// commit pushes a pre-mutation snapshot and invalidates redo history.
func (m *Manager) commit(before Snapshot) bool {
	recorded := m.undo.Push(before)
	m.redo.Clear()
	return recorded
}

// Undo restores the most recent undo snapshot. The current document is pushed
// onto the redo stack first (dropped if that stack is full).
func (m *Manager) Undo(doc *sketch.Document) error {
	if !m.CanUndo() {
		return errors.NewNothingToUndo()
	}
	m.redo.Push(capture(doc))
	snap, _ := m.undo.Pop()
	doc.ReplaceAll(snap.entities)
	return nil
}

// Redo restores the most recent redo snapshot. The current document is pushed
// onto the undo stack first (dropped if that stack is full).
func (m *Manager) Redo(doc *sketch.Document) error {
	if !m.CanRedo() {
		return errors.NewNothingToRedo()
	}
	m.undo.Push(capture(doc))
	snap, _ := m.redo.Pop()
	doc.ReplaceAll(snap.entities)
	return nil
}

// Clear empties both stacks.
func (m *Manager) Clear() {
	m.undo.Clear()
	m.redo.Clear()
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool {
	return m.undo.Len() > 0
}

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool {
	return m.redo.Len() > 0
}

// UndoDepth returns the number of undo snapshots.
func (m *Manager) UndoDepth() int {
	return m.undo.Len()
}

// RedoDepth returns the number of redo snapshots.
func (m *Manager) RedoDepth() int {
	return m.redo.Len()
}

// UndoSnapshots lists undo snapshots, newest first.
func (m *Manager) UndoSnapshots() []Snapshot {
	return m.undo.List()
}

// RedoSnapshots lists redo snapshots, newest first.
func (m *Manager) RedoSnapshots() []Snapshot {
	return m.redo.List()
}
