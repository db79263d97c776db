package ops

import (
	"time"
)

// HistoryOutput reports the sketch size and history depths after an
// undo, redo or history clear.
type HistoryOutput struct {
	Count     int `json:"count"`
	UndoDepth int `json:"undo_depth"`
	RedoDepth int `json:"redo_depth"`
}

func (s *Session) historyOutput() *HistoryOutput {
	return &HistoryOutput{
		Count:     s.doc.Len(),
		UndoDepth: s.history.UndoDepth(),
		RedoDepth: s.history.RedoDepth(),
	}
}

// Undo restores the sketch to the state before the most recent mutation.
func Undo(s *Session) (*HistoryOutput, error) {
	if err := s.history.Undo(s.doc); err != nil {
		return nil, err
	}
	s.logger.Info("undo", "count", s.doc.Len(), "undo_depth", s.history.UndoDepth())
	return s.historyOutput(), nil
}

// Redo re-applies the most recently undone mutation.
func Redo(s *Session) (*HistoryOutput, error) {
	if err := s.history.Redo(s.doc); err != nil {
		return nil, err
	}
	s.logger.Info("redo", "count", s.doc.Len(), "redo_depth", s.history.RedoDepth())
	return s.historyOutput(), nil
}

// ClearHistory drops both history stacks. The sketch itself is unchanged.
func ClearHistory(s *Session) *HistoryOutput {
	s.history.Clear()
	s.logger.Info("history cleared")
	return s.historyOutput()
}

// SnapshotInfo describes one stored history snapshot.
type SnapshotInfo struct {
	ID       string    `json:"id"`
	TakenAt  time.Time `json:"taken_at"`
	Entities int       `json:"entities"`
}

// HistoryListOutput contains the result of the History operation.
type HistoryListOutput struct {
	Undo []SnapshotInfo `json:"undo"`
	Redo []SnapshotInfo `json:"redo"`
}

// History lists the undo and redo snapshots, newest first.
func History(s *Session) *HistoryListOutput {
	out := &HistoryListOutput{
		Undo: []SnapshotInfo{},
		Redo: []SnapshotInfo{},
	}
	for _, snap := range s.history.UndoSnapshots() {
		out.Undo = append(out.Undo, SnapshotInfo{ID: snap.ID.String(), TakenAt: snap.TakenAt, Entities: snap.Len()})
	}
	for _, snap := range s.history.RedoSnapshots() {
		out.Redo = append(out.Redo, SnapshotInfo{ID: snap.ID.String(), TakenAt: snap.TakenAt, Entities: snap.Len()})
	}
	return out
}
