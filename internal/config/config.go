package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirName is the name of both the global (~/.sketchcad) and repo (.sketchcad) config directories.
const DirName = ".sketchcad"

// Config holds application configuration.
type Config struct {
	// CubeDivisions is used when a cube is created without an explicit division count.
	CubeDivisions int `json:"cube_divisions"`

	// SphereDivisions is used for both latitude and longitude when a sphere is
	// created without explicit division counts.
	SphereDivisions int `json:"sphere_divisions"`

	// MeshPrecision is the number of digits written after the decimal point in STL files.
	MeshPrecision int `json:"mesh_precision"`

	// AllowedPaths restricts where mesh and DXF files may be read or written.
	// Empty means any directory. Relative entries are ignored.
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables the AllowedPaths restriction.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of tool groups to disable entirely
	// ("sketch", "history", "shape", "mesh", "dxf", "state").
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CubeDivisions:   1,
		SphereDivisions: 30,
		MeshPrecision:   6,
	}
}

// Validate checks that configured defaults fall inside the bounds the
// geometry engine accepts.
func (c *Config) Validate() error {
	if c.CubeDivisions < 1 || c.CubeDivisions > 100 {
		return fmt.Errorf("cube_divisions must be in [1, 100] (got %d)", c.CubeDivisions)
	}
	if c.SphereDivisions < 3 || c.SphereDivisions > 100 {
		return fmt.Errorf("sphere_divisions must be in [3, 100] (got %d)", c.SphereDivisions)
	}
	if c.MeshPrecision < 1 || c.MeshPrecision > 17 {
		return fmt.Errorf("mesh_precision must be in [1, 17] (got %d)", c.MeshPrecision)
	}
	return nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.sketchcad.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.sketchcad) and repo (.sketchcad) directories.
// Repo config is found by walking upward from startDir to find the nearest .sketchcad/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	cfg := Merge(Merge(DefaultConfig(), global), repo)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindRepoConfig walks upward from startDir to find the nearest .sketchcad/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, DirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	raw, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Merge(DefaultConfig(), raw)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.CubeDivisions = firstNonZero(overlay.CubeDivisions, base.CubeDivisions)
	result.SphereDivisions = firstNonZero(overlay.SphereDivisions, base.SphereDivisions)
	result.MeshPrecision = firstNonZero(overlay.MeshPrecision, base.MeshPrecision)

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
