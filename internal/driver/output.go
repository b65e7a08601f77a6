package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UnitName is the stem of path: the text between the last separator and
// the last dot.
func UnitName(path string) string {
	base := filepath.Base(path)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// ModuleOutput names the file and unit for the index-th module of an input
// translated to path. The first module keeps path itself.
func ModuleOutput(path string, index int) (file, unit string) {
	unit = UnitName(path)
	if index == 0 {
		return path, unit
	}
	unit = fmt.Sprintf("%s_%d", unit, index)
	return filepath.Join(filepath.Dir(path), unit+".ads"), unit
}

// WriteAtomic fills a temp file next to path and renames it into place.
// On failure nothing is left behind.
func WriteAtomic(path string, fill func(f *os.File) error) error {
	tmp, err := stage(path, fill)
	if err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// stage writes the content meant for path into a closed temp file in the
// same directory and returns its name.
func stage(path string, fill func(f *os.File) error) (tmp string, err error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = fill(f); err != nil {
		return "", err
	}
	if err = f.Chmod(0o644); err != nil {
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}
