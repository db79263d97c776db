// Package ops implements the sketchcad operations over an explicitly owned
// Session. Each operation takes a typed Input and returns a typed Output that
// the CLI and MCP layers serialise as JSON.
package ops

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hpungsan/sketchcad/internal/config"
	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/history"
	"github.com/hpungsan/sketchcad/internal/mesh"
	"github.com/hpungsan/sketchcad/internal/sketch"
)

// Session is the state every operation works on: one sketch document, its
// undo/redo history and the 3D shape slot. A Session is not safe for
// concurrent use; callers that share one must serialise access.
type Session struct {
	doc     *sketch.Document
	history *history.Manager
	shape   *mesh.Generator
	cfg     *config.Config
	logger  *slog.Logger

	// Division counts used when a create call omits them. Seeded from cfg;
	// explicit counts on create and the Set*Divisions operations replace them.
	cubeDivisions int
	latDivisions  int
	lonDivisions  int
}

// NewSession creates an empty session. A nil cfg uses config.DefaultConfig;
// a nil logger discards everything.
func NewSession(cfg *config.Config, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		doc:     sketch.NewDocument(),
		history: history.NewManager(),
		shape:   mesh.NewGenerator(),
		cfg:     cfg,
		logger:  logger,

		cubeDivisions: cfg.CubeDivisions,
		latDivisions:  cfg.SphereDivisions,
		lonDivisions:  cfg.SphereDivisions,
	}
}

// Config returns the configuration the session was created with.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// MutationOutput is returned by every operation that changes the sketch.
type MutationOutput struct {
	Count    int  `json:"count"`
	Undoable bool `json:"undoable"`
}

// mutate runs fn as one history step and logs the outcome.
// A mutation recorded while the undo stack is full is applied but not undoable.
func (s *Session) mutate(op string, fn func(*sketch.Document) error) (*MutationOutput, error) {
	undoable, err := s.history.Mutate(s.doc, fn)
	if err != nil {
		return nil, err
	}

	if !undoable {
		s.logger.Debug("history full; mutation not undoable",
			"op", op, "depth", history.Depth)
	}
	s.logger.Info("sketch mutated", "op", op, "count", s.doc.Len())

	return &MutationOutput{
		Count:    s.doc.Len(),
		Undoable: undoable,
	}, nil
}

// checkFinite rejects NaN and infinite coordinates.
func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.NewOutOfRange(field, v, "a finite number")
	}
	return nil
}

// checkRange rejects integers outside [lo, hi].
func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return errors.NewOutOfRange(field, v, fmt.Sprintf("in [%d, %d]", lo, hi))
	}
	return nil
}

// EntityItem is one entity as returned by list-style operations.
type EntityItem struct {
	Index int `json:"index"`
	sketch.Entity
	Description string `json:"description"`
}

func entityItems(entities []sketch.Entity) []EntityItem {
	items := make([]EntityItem, len(entities))
	for i, e := range entities {
		items[i] = EntityItem{
			Index:       i,
			Entity:      e,
			Description: e.String(),
		}
	}
	return items
}
