package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	def := DefaultConfig()
	if cfg.CubeDivisions != def.CubeDivisions {
		t.Errorf("CubeDivisions = %d, want %d", cfg.CubeDivisions, def.CubeDivisions)
	}
	if cfg.SphereDivisions != def.SphereDivisions {
		t.Errorf("SphereDivisions = %d, want %d", cfg.SphereDivisions, def.SphereDivisions)
	}
	if cfg.MeshPrecision != def.MeshPrecision {
		t.Errorf("MeshPrecision = %d, want %d", cfg.MeshPrecision, def.MeshPrecision)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"cube_divisions": 8, "mesh_precision": 3}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CubeDivisions != 8 {
		t.Errorf("CubeDivisions = %d, want 8", cfg.CubeDivisions)
	}
	if cfg.MeshPrecision != 3 {
		t.Errorf("MeshPrecision = %d, want 3", cfg.MeshPrecision)
	}
	if cfg.SphereDivisions != 30 {
		t.Errorf("SphereDivisions = %d, want default 30", cfg.SphereDivisions)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_OutOfRangeRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"cube divisions", `{"cube_divisions": 101}`},
		{"sphere divisions", `{"sphere_divisions": 2}`},
		{"precision", `{"mesh_precision": 40}`},
		{"negative", `{"cube_divisions": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, tt.body)
			if _, err := Load(tmpDir); err == nil {
				t.Fatalf("Load() expected error for %s", tt.body)
			}
		})
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["dxf_import", "mesh_save"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "dxf_import" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "dxf_import")
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeConfig(t, globalDir, `{"sphere_divisions": 40, "disabled_tools": ["dxf_import"], "allowed_paths": ["/tmp/a"]}`)
	writeConfig(t, filepath.Join(repoRoot, DirName), `{"sphere_divisions": 12, "disabled_tools": ["mesh_save", "dxf_import"]}`)

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	if cfg.SphereDivisions != 12 {
		t.Errorf("SphereDivisions = %d, want 12 (repo override)", cfg.SphereDivisions)
	}
	if cfg.CubeDivisions != 1 {
		t.Errorf("CubeDivisions = %d, want default 1", cfg.CubeDivisions)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want 2 merged entries", cfg.DisabledTools)
	}
	if len(cfg.AllowedPaths) != 1 || cfg.AllowedPaths[0] != "/tmp/a" {
		t.Errorf("AllowedPaths = %v, want [/tmp/a]", cfg.AllowedPaths)
	}
}

func TestLoadWithRepo_FindsConfigInParent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()
	nested := filepath.Join(repoRoot, "parts", "bracket")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	writeConfig(t, filepath.Join(repoRoot, DirName), `{"cube_divisions": 5}`)

	cfg, err := LoadWithRepo(globalDir, nested)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.CubeDivisions != 5 {
		t.Errorf("CubeDivisions = %d, want 5", cfg.CubeDivisions)
	}
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.SphereDivisions != 30 {
		t.Errorf("SphereDivisions = %d, want 30", cfg.SphereDivisions)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if got := FindRepoConfig(t.TempDir()); got != "" {
		// A stray .sketchcad above the temp dir would make this flaky; only
		// fail when the hit is inside the temp tree.
		if filepath.Dir(filepath.Dir(got)) == os.TempDir() {
			t.Errorf("FindRepoConfig() = %q, want empty", got)
		}
	}
}

func TestMerge(t *testing.T) {
	base := &Config{CubeDivisions: 2, MeshPrecision: 6, AllowedPaths: []string{" /a ", "/b"}}
	overlay := &Config{MeshPrecision: 9, AllowUnsafePaths: true, AllowedPaths: []string{"/b", "", "/c"}}

	got := Merge(base, overlay)

	if got.CubeDivisions != 2 {
		t.Errorf("CubeDivisions = %d, want 2", got.CubeDivisions)
	}
	if got.MeshPrecision != 9 {
		t.Errorf("MeshPrecision = %d, want 9", got.MeshPrecision)
	}
	if !got.AllowUnsafePaths {
		t.Error("AllowUnsafePaths = false, want true")
	}
	want := []string{"/a", "/b", "/c"}
	if len(got.AllowedPaths) != len(want) {
		t.Fatalf("AllowedPaths = %v, want %v", got.AllowedPaths, want)
	}
	for i := range want {
		if got.AllowedPaths[i] != want[i] {
			t.Errorf("AllowedPaths[%d] = %q, want %q", i, got.AllowedPaths[i], want[i])
		}
	}
}
