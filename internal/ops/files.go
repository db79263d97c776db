package ops

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/sketchcad/internal/dxf"
	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/mesh"
	"github.com/hpungsan/sketchcad/internal/sketch"
)

// writeFileAtomic writes to a temp file next to path and renames it into
// place, so a failed write never leaves a truncated file at path and an
// existing file is preserved.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tempPath := path + "." + strings.ToLower(ulid.Make().String()) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if err := write(file); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return errors.NewIO("sync", path, err)
	}

	// Close before rename (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return errors.NewIO("close", path, err)
	}
	file = nil

	// os.Rename would follow a symlink planted since validation.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("path must not be a symlink")
	}

	// On Windows, os.Rename fails if the destination exists. Fail safely
	// rather than delete-then-rename.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("destination already exists; overwriting is not supported on Windows")
			}
		}
		return errors.NewIO("rename", path, err)
	}

	success = true
	return nil
}

// SaveMeshInput contains parameters for the SaveMesh operation.
type SaveMeshInput struct {
	Path      string `json:"path"`
	Precision *int   `json:"precision,omitempty"` // default: config mesh_precision
}

// SaveMeshOutput contains the result of the SaveMesh operation.
type SaveMeshOutput struct {
	Path   string `json:"path"`
	Facets int    `json:"facets"`
}

// SaveMesh triangulates the current shape and writes it as ASCII STL.
// The shape and path are validated before any file is created.
func SaveMesh(s *Session, input SaveMeshInput) (*SaveMeshOutput, error) {
	precision := s.cfg.MeshPrecision
	if input.Precision != nil {
		precision = *input.Precision
	}
	if err := checkRange("precision", precision, 1, 17); err != nil {
		return nil, err
	}

	facets, err := s.shape.Facets()
	if err != nil {
		return nil, err
	}

	if err := ValidatePath(input.Path, ExtSTL, PathCheckWrite, s.cfg); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(input.Path, func(w io.Writer) error {
		return mesh.WriteFacets(w, facets, precision)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("mesh saved", "path", input.Path, "facets", len(facets), "shape", s.shape.Shape().String())
	return &SaveMeshOutput{
		Path:   input.Path,
		Facets: len(facets),
	}, nil
}

// ExportDXFInput contains parameters for the ExportDXF operation.
type ExportDXFInput struct {
	Path string `json:"path"`
}

// ExportDXFOutput contains the result of the ExportDXF operation.
type ExportDXFOutput struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// ExportDXF writes every sketch entity to a DXF file.
func ExportDXF(s *Session, input ExportDXFInput) (*ExportDXFOutput, error) {
	if err := ValidatePath(input.Path, ExtDXF, PathCheckWrite, s.cfg); err != nil {
		return nil, err
	}

	entities := s.doc.Entities()
	if err := writeFileAtomic(input.Path, func(w io.Writer) error {
		return dxf.Write(w, entities)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("dxf exported", "path", input.Path, "count", len(entities))
	return &ExportDXFOutput{
		Path:  input.Path,
		Count: len(entities),
	}, nil
}

// ImportDXFInput contains parameters for the ImportDXF operation.
type ImportDXFInput struct {
	Path string `json:"path"`
}

// ImportDXFOutput contains the result of the ImportDXF operation.
type ImportDXFOutput struct {
	Path     string `json:"path"`
	Imported int    `json:"imported"`
	Count    int    `json:"count"`
	Undoable bool   `json:"undoable"`
}

// ImportDXF appends every entity of a DXF file to the sketch as one undoable
// step. The whole file is parsed and checked against the remaining capacity
// first, so a malformed or oversized file leaves the sketch untouched.
// A file with no supported entities changes nothing and records no history.
func ImportDXF(s *Session, input ImportDXFInput) (*ImportDXFOutput, error) {
	if err := ValidatePath(input.Path, ExtDXF, PathCheckRead, s.cfg); err != nil {
		return nil, err
	}

	f, err := openFileNoFollowRead(input.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entities, err := dxf.Read(f)
	if err != nil {
		return nil, err
	}

	if len(entities) > s.doc.Remaining() {
		return nil, errors.NewCapacityExceeded(sketch.Capacity, s.doc.Len()+len(entities))
	}

	out := &ImportDXFOutput{
		Path:     input.Path,
		Imported: len(entities),
		Count:    s.doc.Len(),
	}
	if len(entities) == 0 {
		s.logger.Info("dxf import found no entities", "path", input.Path)
		return out, nil
	}

	m, err := s.mutate("import_dxf", func(doc *sketch.Document) error {
		for i, e := range entities {
			if _, err := doc.Add(e); err != nil {
				return fmt.Errorf("entity %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("dxf imported", "path", input.Path, "imported", len(entities))
	out.Count = m.Count
	out.Undoable = m.Undoable
	return out, nil
}
