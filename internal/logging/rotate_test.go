package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingWriter_WritesWithoutRotationUnderLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crawl.log")

	w, err := newRotatingWriter(path, 1024, 2)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestRotatingWriter_RotatesOnceLimitExceeded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crawl.log")

	w, err := newRotatingWriter(path, 10, 2)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, write(w, "0123456789"))
	require.NoError(t, write(w, "next-line\n"))

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err, "expected a backup file after rotation")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "next-line\n", string(content))
}

func TestRotatingWriter_BoundsBackupCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crawl.log")

	w, err := newRotatingWriter(path, 5, 1)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, write(w, "123456"))
	}

	_, err = os.Stat(path + ".2")
	assert.Error(t, err, "backup count of 1 should never produce a .2 file")
}

func write(w *rotatingWriter, s string) error {
	_, err := w.Write([]byte(s))
	return err
}
