package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"llvmads/internal/backend/ada"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesOnlyDefinedKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[output]
globals = true
exclude = ["llvm.", "__"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := ada.DefaultOptions()
	if !cfg.Options.Globals {
		t.Fatalf("globals not applied")
	}
	if !cfg.Options.Provenance {
		t.Fatalf("provenance must keep its default")
	}
	if !slices.Equal(cfg.Options.With, want.With) || len(cfg.Options.Preamble) != len(want.Preamble) {
		t.Fatalf("with/preamble must keep defaults: %+v", cfg.Options)
	}
	if !slices.Equal(cfg.Options.Exclude, []string{"llvm.", "__"}) {
		t.Fatalf("exclude = %v", cfg.Options.Exclude)
	}
	if cfg.Path != path {
		t.Fatalf("path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadSubtypesReplacePreamble(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[output]
with = ["Interfaces.C", "System"]
provenance = false

[[subtype]]
name = "i32"
target = "Interfaces.C.int"

[[subtype]]
name = "i8"
target = "Interfaces.C.signed_char"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []ada.Subtype{{Name: "i32", Target: "Interfaces.C.int"}, {Name: "i8", Target: "Interfaces.C.signed_char"}}
	if !slices.Equal(cfg.Options.Preamble, want) {
		t.Fatalf("preamble = %+v, want %+v", cfg.Options.Preamble, want)
	}
	if cfg.Options.Provenance {
		t.Fatalf("provenance must be disabled")
	}
	if len(cfg.Options.With) != 2 {
		t.Fatalf("with = %v", cfg.Options.With)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "[output]\ncolour = true\n",
		"syntax":         "[output\n",
		"empty with":     "[output]\nwith = [\"\"]\n",
		"bad cache":      "[output]\nname_cache = 0\n",
		"missing target": "[[subtype]]\nname = \"i32\"\n",
		"bad identifier": "[[subtype]]\nname = \"in\"\ntarget = \"Integer\"\n",
		"duplicate": "[[subtype]]\nname = \"i32\"\ntarget = \"A\"\n" +
			"[[subtype]]\nname = \"i32\"\ntarget = \"B\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), body)
			if _, err := Load(path); err == nil || !strings.Contains(err.Error(), path) {
				t.Fatalf("expected error naming %s, got %v", path, err)
			}
		})
	}
}

func TestResolveWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "[output]\nglobals = true\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg, err := Resolve("", nested)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Path != path || !cfg.Options.Globals {
		t.Fatalf("expected %s to be found, got %+v", path, cfg)
	}
}

func TestResolveExplicitAndDefault(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(explicit, []byte("[output]\nprovenance = false\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Resolve(explicit, "")
	if err != nil {
		t.Fatalf("Resolve explicit: %v", err)
	}
	if cfg.Options.Provenance {
		t.Fatalf("explicit file ignored")
	}
	if _, err := Resolve(filepath.Join(dir, "missing.toml"), ""); err == nil {
		t.Fatalf("missing explicit file must fail")
	}
}
