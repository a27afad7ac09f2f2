// Package theme runs one generation or reuse pass over a GNOME Shell theme directory.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Files inside a theme directory.
const (
	TemplateFile  = "template.css"
	ThemesFile    = "themes.css"
	GeneratedFile = "generated.css"
	OutputFile    = "gnome-shell.css"
)

var (
	// ErrInvalidPath is returned when the theme directory does not exist.
	ErrInvalidPath = errors.New("invalid theme path")

	// ErrMissingTemplate is returned when template.css is absent.
	ErrMissingTemplate = errors.New(TemplateFile + " not found")

	// ErrMissingThemeFile is returned when themes.css is absent on a generation pass.
	ErrMissingThemeFile = errors.New(ThemesFile + " not found")

	// ErrMissingGeneratedFile is returned when generated.css is absent on a reuse pass.
	ErrMissingGeneratedFile = errors.New(GeneratedFile + " not found")
)

// Dir is a theme directory.
type Dir string

// Path returns the path of name inside the directory.
func (d Dir) Path(name string) string {
	return filepath.Join(string(d), name)
}

// Validate checks that the directory exists.
func (d Dir) Validate() error {
	info, err := os.Stat(string(d))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrInvalidPath, d)
		}
		return fmt.Errorf("failed to access theme directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, d)
	}
	return nil
}

// read returns the contents of name, or missing wrapped with the path when it does not exist.
func (d Dir) read(name string, missing error) (string, error) {
	path := d.Path(name)
	data, err := os.ReadFile(path) // #nosec G304 - Files inside the user's theme directory
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", missing, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// writeFileAtomic replaces path with data via a temporary file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { // #nosec G302 - Theme files are read by gnome-shell
		cleanup()
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
