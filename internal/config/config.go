// Package config reads the optional ads.toml that tunes emitted specs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"llvmads/internal/backend/ada"
)

// FileName is the manifest looked up from the working directory.
const FileName = "ads.toml"

// Config is the effective configuration together with where it came from.
type Config struct {
	// Path is empty when no file was found and defaults are in effect.
	Path    string
	Options ada.Options
}

type fileConfig struct {
	Output   outputConfig    `toml:"output"`
	Subtypes []subtypeConfig `toml:"subtype"`
}

type outputConfig struct {
	With       []string `toml:"with"`
	Provenance bool     `toml:"provenance"`
	Globals    bool     `toml:"globals"`
	Exclude    []string `toml:"exclude"`
	NameCache  int      `toml:"name_cache"`
}

type subtypeConfig struct {
	Name   string `toml:"name"`
	Target string `toml:"target"`
}

// Default returns the configuration used when no ads.toml exists.
func Default() Config {
	return Config{Options: ada.DefaultOptions()}
}

// Find walks up from startDir to locate ads.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads explicit when it is set, otherwise the nearest ads.toml
// above startDir, otherwise the defaults.
func Resolve(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes one ads.toml. Keys that are not present keep their defaults.
func Load(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0].String())
	}

	opts := ada.DefaultOptions()
	if meta.IsDefined("output", "with") {
		for _, pkg := range fc.Output.With {
			if strings.TrimSpace(pkg) == "" {
				return Config{}, fmt.Errorf("%s: empty entry in [output].with", path)
			}
		}
		opts.With = fc.Output.With
	}
	if meta.IsDefined("output", "provenance") {
		opts.Provenance = fc.Output.Provenance
	}
	if meta.IsDefined("output", "globals") {
		opts.Globals = fc.Output.Globals
	}
	if meta.IsDefined("output", "exclude") {
		opts.Exclude = fc.Output.Exclude
	}
	if meta.IsDefined("output", "name_cache") {
		if fc.Output.NameCache <= 0 {
			return Config{}, fmt.Errorf("%s: [output].name_cache must be positive", path)
		}
		opts.NameCacheSize = fc.Output.NameCache
	}
	if meta.IsDefined("subtype") {
		preamble := make([]ada.Subtype, 0, len(fc.Subtypes))
		seen := make(map[string]struct{}, len(fc.Subtypes))
		for i, st := range fc.Subtypes {
			name := strings.TrimSpace(st.Name)
			if name == "" || strings.TrimSpace(st.Target) == "" {
				return Config{}, fmt.Errorf("%s: [[subtype]] #%d needs name and target", path, i+1)
			}
			if ada.Sanitize(name) != name {
				return Config{}, fmt.Errorf("%s: [[subtype]] name %q is not a valid identifier", path, name)
			}
			if _, dup := seen[name]; dup {
				return Config{}, fmt.Errorf("%s: duplicate [[subtype]] %q", path, name)
			}
			seen[name] = struct{}{}
			preamble = append(preamble, ada.Subtype{Name: name, Target: strings.TrimSpace(st.Target)})
		}
		opts.Preamble = preamble
	}
	return Config{Path: path, Options: opts}, nil
}
