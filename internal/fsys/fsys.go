// Package fsys is the filesystem collaborator used by the walker.
//
// It exposes the handful of primitives a traversal needs (list, read, stat,
// lstat, resolve) behind a small interface with two afero-backed
// implementations: the real disk and an in-memory tree for tests.
package fsys

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// FS is the set of filesystem primitives the walker relies on.
// All paths are absolute, OS-native paths.
type FS interface {
	// ReadDirNames returns the names of the entries in a directory, sorted.
	ReadDirNames(path string) ([]string, error)

	// ReadFile returns the content of a given file.
	ReadFile(path string) ([]byte, error)

	// Lstat describes the named entry without following a final symlink.
	// Backends without symlink support fall back to Stat.
	Lstat(path string) (fs.FileInfo, error)

	// Stat describes the named entry, following symlinks.
	Stat(path string) (fs.FileInfo, error)

	// RealPath resolves every symlink in path.
	RealPath(path string) (string, error)

	// Afero exposes the underlying afero filesystem.
	Afero() afero.Fs
}

type fsys struct {
	kind string
	afs  afero.Fs
}

// New wraps an arbitrary afero filesystem.
func New(afs afero.Fs) FS {
	kind := "afero"
	if _, ok := afs.(*afero.OsFs); ok {
		kind = "os"
	}
	return &fsys{kind: kind, afs: afs}
}

// NewOsFS returns the real filesystem.
func NewOsFS() FS {
	return &fsys{kind: "os", afs: afero.NewOsFs()}
}

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS() FS {
	return &fsys{kind: "mem", afs: afero.NewMemMapFs()}
}

func (f *fsys) Afero() afero.Fs { return f.afs }

func (f *fsys) ReadDirNames(path string) ([]string, error) {
	d, err := f.afs.Open(path)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	names, err := d.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (f *fsys) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(f.afs, path)
}

func (f *fsys) Lstat(path string) (fs.FileInfo, error) {
	if l, ok := f.afs.(afero.Lstater); ok {
		fi, _, err := l.LstatIfPossible(path)
		return fi, err
	}
	return f.afs.Stat(path)
}

func (f *fsys) Stat(path string) (fs.FileInfo, error) {
	return f.afs.Stat(path)
}

func (f *fsys) RealPath(path string) (string, error) {
	if f.kind != "os" {
		return filepath.Clean(path), nil
	}
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("fsys: resolve %s: %w", path, err)
	}
	return real, nil
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(f FS, path string, data []byte) error {
	if err := f.Afero().MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(f.Afero(), path, data, 0o644)
}

// MkdirAll creates a directory path, creating intervening directories.
func MkdirAll(f FS, path string) error {
	return f.Afero().MkdirAll(path, 0o755)
}

// Symlink creates newname pointing at oldname when the backend supports it.
func Symlink(f FS, oldname, newname string) error {
	if l, ok := f.Afero().(afero.Linker); ok {
		return l.SymlinkIfPossible(oldname, newname)
	}
	return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: afero.ErrNoSymlink}
}
