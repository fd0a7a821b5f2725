package iox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	dst := filepath.Join(dir, "b.png")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0666))

	require.NoError(t, CopyFile(dst, src))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "pixels", string(b))

	// Never overwrite
	require.ErrorIs(t, CopyFile(dst, src), os.ErrExist)

	// Missing source leaves nothing behind
	missingDst := filepath.Join(dir, "c.png")
	require.ErrorIs(t, CopyFile(missingDst, filepath.Join(dir, "nope.png")), os.ErrNotExist)
	require.NoFileExists(t, missingDst)
}

func TestWriteFileExclusive(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, WriteFileExclusive(fn, []byte("0 0.5 0.5 1 1\n")))
	require.ErrorIs(t, WriteFileExclusive(fn, []byte("again")), os.ErrExist)
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	require.Equal(t, "0 0.5 0.5 1 1\n", string(b))
}
