package fsys

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// builders return a filesystem and an absolute root directory inside it.
var builders = map[string]func(t *testing.T) (FS, string){
	"dsk": func(t *testing.T) (FS, string) {
		return NewOsFS(), t.TempDir()
	},
	"mem": func(t *testing.T) (FS, string) {
		return NewMemFS(), filepath.FromSlash("/project")
	},
}

func TestReadDirNamesSorted(t *testing.T) {
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			f, root := build(t)
			for _, p := range []string{"b.txt", "a.txt", "c/d.txt"} {
				require.NoError(t, WriteFile(f, filepath.Join(root, p), []byte(p)))
			}

			names, err := f.ReadDirNames(root)
			require.NoError(t, err)
			if diff := cmp.Diff([]string{"a.txt", "b.txt", "c"}, names); diff != "" {
				t.Errorf("ReadDirNames mismatch (-want +got):\n%s", diff)
			}

			data, err := f.ReadFile(filepath.Join(root, "c", "d.txt"))
			require.NoError(t, err)
			assert.Equal(t, "c/d.txt", string(data))
		})
	}
}

func TestNotExist(t *testing.T) {
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			f, root := build(t)
			missing := filepath.Join(root, "missing")

			_, err := f.Stat(missing)
			assert.ErrorIs(t, err, fs.ErrNotExist)
			_, err = f.Lstat(missing)
			assert.ErrorIs(t, err, fs.ErrNotExist)
			_, err = f.ReadDirNames(missing)
			assert.Error(t, err)
		})
	}
}

func TestLstatSymlinkOnDisk(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	f := NewOsFS()
	root := t.TempDir()
	target := filepath.Join(root, "target")
	link := filepath.Join(root, "link")
	require.NoError(t, MkdirAll(f, target))
	require.NoError(t, Symlink(f, target, link))

	li, err := f.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, li.Mode()&os.ModeSymlink)

	si, err := f.Stat(link)
	require.NoError(t, err)
	assert.True(t, si.IsDir())

	real, err := f.RealPath(link)
	require.NoError(t, err)
	wantReal, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, wantReal, real)
}

func TestMemFSHasNoSymlinks(t *testing.T) {
	f := NewMemFS()
	err := Symlink(f, "/a", "/b")
	require.Error(t, err)

	real, err := f.RealPath("/a/../b/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/b"), real)
}
