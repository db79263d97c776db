package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/sketchcad/internal/config"
	"github.com/hpungsan/sketchcad/internal/errors"
)

// PathCheckMode indicates whether the path check is for reading or writing.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // for import (read file)
	PathCheckWrite                      // for save/export (write file)
)

// File extensions accepted by the file operations.
const (
	ExtSTL = ".stl"
	ExtDXF = ".dxf"
)

// ValidatePath checks a user-supplied path before any file is opened:
//  1. No directory traversal (.. components)
//  2. Extension matches ext (case-insensitive)
//  3. When allowed_paths is configured and allow_unsafe_paths is off, the file
//     must live inside one of the allowed directories
//  4. The file itself must not be a symlink
//  5. For reads, the file must exist
func ValidatePath(path, ext string, mode PathCheckMode, cfg *config.Config) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewInvalidRequest("path is required")
	}

	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !strings.EqualFold(filepath.Ext(cleaned), ext) {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have %s extension", ext))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if cfg != nil && !cfg.AllowUnsafePaths && len(cfg.AllowedPaths) > 0 {
		allowedDirs, err := getAllowedDirs(cfg)
		if err != nil {
			return err
		}
		parentDir := resolveDir(filepath.Dir(absPath))
		if !isInAllowedDir(parentDir, allowedDirs) {
			return errors.NewInvalidRequest(
				fmt.Sprintf("file must be inside an allowed directory; allowed: %v", allowedDirs))
		}
	}

	info, err := os.Lstat(absPath)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink != 0:
		return errors.NewInvalidRequest("path must not be a symlink")
	case err == nil && info.IsDir():
		return errors.NewInvalidRequest("path is a directory")
	case err != nil && os.IsNotExist(err) && mode == PathCheckRead:
		return errors.NewFileNotFound(path)
	}

	return nil
}

// getAllowedDirs returns the configured allowed directories (absolute, cleaned,
// symlinks resolved). Relative entries are ignored.
func getAllowedDirs(cfg *config.Config) ([]string, error) {
	result := make([]string, 0, len(cfg.AllowedPaths))
	for _, p := range cfg.AllowedPaths {
		if !filepath.IsAbs(p) {
			continue
		}
		abs, err := filepath.Abs(filepath.Clean(p))
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		result = append(result, resolveDir(abs))
	}
	return result, nil
}

// resolveDir resolves symlinks in dir when it exists, so that comparisons
// are made between real locations.
func resolveDir(dir string) string {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved
	}
	return dir
}

// isInAllowedDir reports whether dir equals or is nested below one of allowedDirs.
func isInAllowedDir(dir string, allowedDirs []string) bool {
	dir = filepath.Clean(dir)
	for _, allowed := range allowedDirs {
		rel, err := filepath.Rel(filepath.Clean(allowed), dir)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check for forward slashes on all platforms (e.g., user input)
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
