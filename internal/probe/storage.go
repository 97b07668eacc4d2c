// Package probe answers which languages (and subjects) of a task have
// evaluation artifacts on disk.
package probe

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Entry is a single directory entry.
type Entry struct {
	Name  string
	IsDir bool
}

// Storage is the read-only filesystem capability the probe needs. A missing
// path is never an error: Exists/IsDir report false and ReadDir returns no entries.
type Storage interface {
	Exists(path string) bool
	IsDir(path string) bool
	ReadDir(path string) ([]Entry, error)
}

// OSStorage reads the local filesystem.
type OSStorage struct{}

func (OSStorage) Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func (OSStorage) IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func (OSStorage) ReadDir(p string) ([]Entry, error) {
	entries, err := os.ReadDir(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toEntries(entries), nil
}

// FSStorage adapts an fs.FS. Paths are interpreted relative to the FS root.
type FSStorage struct {
	FS fs.FS
}

func (s FSStorage) name(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

func (s FSStorage) Exists(p string) bool {
	_, err := fs.Stat(s.FS, s.name(p))
	return err == nil
}

func (s FSStorage) IsDir(p string) bool {
	info, err := fs.Stat(s.FS, s.name(p))
	return err == nil && info.IsDir()
}

func (s FSStorage) ReadDir(p string) ([]Entry, error) {
	entries, err := fs.ReadDir(s.FS, s.name(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toEntries(entries), nil
}

func toEntries(entries []fs.DirEntry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out
}
