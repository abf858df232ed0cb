// Package prefs persists the subdeck session choices that survive a restart:
// the color theme, whether the log overlay is open and the last list filter.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultPath is used when no preferences file is given.
const DefaultPath = "~/.config/subdeck/prefs.toml"

// maxSearch matches the search box character limit.
const maxSearch = 64

// Prefs is the on-disk preference document.
type Prefs struct {
	Theme    string `toml:"theme"`
	ShowLogs bool   `toml:"show_logs,omitempty"`
	// Search is the committed list filter, restored into the search box.
	Search string `toml:"search,omitempty"`
}

// Normalize fixes values a hand-edited file may carry. An unknown theme falls
// back to the first of themes; the search is trimmed and capped.
func (p Prefs) Normalize(themes []string) Prefs {
	if len(themes) > 0 && !slices.Contains(themes, p.Theme) {
		p.Theme = themes[0]
	}
	p.Search = strings.TrimSpace(p.Search)
	for utf8.RuneCountInString(p.Search) > maxSearch {
		_, size := utf8.DecodeLastRuneInString(p.Search)
		p.Search = p.Search[:len(p.Search)-size]
	}
	return p
}

// File is a preferences document at a resolved location.
type File struct {
	path string
}

// Open resolves path, expanding a leading ~. An empty path selects
// DefaultPath. The file itself need not exist.
func Open(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve prefs path: %w", err)
	}
	return &File{path: resolved}, nil
}

// Path returns the absolute file location.
func (f *File) Path() string {
	return f.path
}

// Load reads the document. A missing file is not an error and yields the zero
// Prefs; an unreadable or malformed one yields the zero Prefs and the error.
func (f *File) Load() (Prefs, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Prefs{}, nil
		}
		return Prefs{}, fmt.Errorf("read prefs: %w", err)
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Prefs{}, fmt.Errorf("parse prefs %s: %w", f.path, err)
	}
	return p, nil
}

// Update applies fn to the stored document and writes it back. A malformed
// file is replaced rather than blocking the update.
func (f *File) Update(fn func(*Prefs)) error {
	p, _ := f.Load()
	fn(&p)
	return f.write(p)
}

// write replaces the file through a temp file in the same directory so a
// crash never leaves a truncated document behind.
func (f *File) write(p Prefs) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
