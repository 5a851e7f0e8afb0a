package filewriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteCreatesFileAndParentDirs(t *testing.T) {
	dir := t.TempDir()
	w := New(Options{OutputRoot: dir})

	require.NoError(t, w.Write("a/b/c.txt", []byte("hello")))

	got, err := os.ReadFile(filepath.Join(dir, "a/b/c.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
	require.Equal(t, 1, w.Written())
	require.Equal(t, 0, w.Skipped())
}

func TestWriteOverwritesByDefault(t *testing.T) {
	dir := t.TempDir()
	w := New(Options{OutputRoot: dir})

	require.NoError(t, w.Write("f.txt", []byte("one")))
	require.NoError(t, w.Write("f.txt", []byte("two")))

	got, err := os.ReadFile(filepath.Join(dir, "f.txt"))
	require.NoError(t, err)
	require.Equal(t, "two", string(got))
	require.Equal(t, 2, w.Written())
}

func TestNoOverwriteSkipsByteIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	w := New(Options{OutputRoot: dir, NoOverwrite: true})

	require.NoError(t, w.Write("f.txt", []byte("same")))
	require.NoError(t, w.Write("f.txt", []byte("same")))

	require.Equal(t, 1, w.Written())
	require.Equal(t, 1, w.Skipped())
}

func TestNoOverwriteStillWritesWhenContentDiffers(t *testing.T) {
	dir := t.TempDir()
	w := New(Options{OutputRoot: dir, NoOverwrite: true})

	require.NoError(t, w.Write("f.txt", []byte("one")))
	require.NoError(t, w.Write("f.txt", []byte("two")))

	got, err := os.ReadFile(filepath.Join(dir, "f.txt"))
	require.NoError(t, err)
	require.Equal(t, "two", string(got))
	require.Equal(t, 2, w.Written())
	require.Equal(t, 0, w.Skipped())
}

func TestCloseWritesSortedManifestIncludingSkippedEntries(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.txt")
	w := New(Options{OutputRoot: dir, NoOverwrite: true, ManifestPath: manifestPath})

	require.NoError(t, w.Write("b.txt", []byte("b")))
	require.NoError(t, w.Write("a.txt", []byte("a")))
	require.NoError(t, w.Write("b.txt", []byte("b"))) // skipped, identical

	require.NoError(t, w.Close())

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	content := string(data)

	aIdx := indexOf(content, "a.txt ")
	bIdx := indexOf(content, "b.txt ")
	require.GreaterOrEqual(t, aIdx, 0)
	require.GreaterOrEqual(t, bIdx, 0)
	require.Less(t, aIdx, bIdx, "manifest entries must be sorted by path")
	require.Contains(t, content, "# 2 file(s)")
}

func TestCloseWithoutManifestPathIsNoop(t *testing.T) {
	dir := t.TempDir()
	w := New(Options{OutputRoot: dir})
	require.NoError(t, w.Write("f.txt", []byte("x")))
	require.NoError(t, w.Close())
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
