package archiver

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSaveDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "slot1", "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.sav"), []byte("profile"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slot1", "data.bin"), bytes.Repeat([]byte("x"), 4096), 0o644))
	return dir
}

func TestZipDirectoryAndExtract(t *testing.T) {
	src := writeSaveDir(t)
	archive := filepath.Join(t.TempDir(), "Foo-Backup-20240101-000000.zip")

	var lastDone, lastTotal int64
	err := ZipDirectory(src, archive, func(done, total int64) {
		lastDone, lastTotal = done, total
	}, t.Errorf)
	require.NoError(t, err)
	assert.Equal(t, int64(4096+7), lastTotal)
	assert.Equal(t, lastTotal, lastDone)

	size, err := UncompressedSize(archive)
	require.NoError(t, err)
	assert.Equal(t, uint64(4096+7), size)

	dest := filepath.Join(t.TempDir(), "restored")
	require.NoError(t, Extract(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "profile.sav"))
	require.NoError(t, err)
	assert.Equal(t, "profile", string(data))

	info, err := os.Stat(filepath.Join(dest, "slot1", "data.bin"))
	require.NoError(t, err)
	assert.Equal(t, int64(4096), info.Size())

	info, err = os.Stat(filepath.Join(dest, "slot1", "empty"))
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "empty directories survive the round trip")
}

func TestZipDirectory_MissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.zip")
	err := ZipDirectory(filepath.Join(t.TempDir(), "missing"), dest, nil, t.Errorf)
	assert.Error(t, err)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "no partial archive should be left behind")
}

func TestZipDirectory_CleanupFailureIsLogged(t *testing.T) {
	src := writeSaveDir(t)
	dest := filepath.Join(t.TempDir(), "out.zip")

	var logged []string
	logf := func(format string, args ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}
	sabotaged := false
	err := ZipDirectory(src, dest, func(done, total int64) {
		if sabotaged {
			return
		}
		sabotaged = true
		// The walk fails on the vanished folder, and the archive path becomes a
		// non-empty directory that cannot be removed.
		require.NoError(t, os.RemoveAll(filepath.Join(src, "slot1")))
		require.NoError(t, os.Remove(dest))
		require.NoError(t, os.MkdirAll(filepath.Join(dest, "x"), 0o755))
	}, logf)

	assert.Error(t, err)
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "Remove failed for "+dest)
}

func TestExtract_TraversalStaysInside(t *testing.T) {
	tmp := t.TempDir()
	archive := filepath.Join(tmp, "evil.zip")

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, err := w.Create("../../outside.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("gotcha"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(archive, buf.Bytes(), 0o644))

	dest := filepath.Join(tmp, "dest")
	require.NoError(t, Extract(archive, dest))

	_, err = os.Stat(filepath.Join(tmp, "outside.txt"))
	assert.True(t, os.IsNotExist(err), "entry must not escape the destination")
	_, err = os.Stat(filepath.Join(dest, "outside.txt"))
	assert.NoError(t, err)
}

func TestExtract_Unsupported(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "backup.tar")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	assert.Error(t, Extract(p, filepath.Join(tmp, "dest")))
	_, err := UncompressedSize(p)
	assert.Error(t, err)
}

func TestIsArchive(t *testing.T) {
	assert.True(t, IsArchive("a.zip"))
	assert.True(t, IsArchive("a.7z"))
	assert.True(t, IsArchive("a.RAR"))
	assert.False(t, IsArchive("a.txt"))
}

func TestProgressWriter_Write(t *testing.T) {
	var calls int
	pw := &ProgressWriter{Total: 10, OnProgress: func(done, total int64) { calls++ }}
	n, err := pw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, int64(5), pw.Done)
	assert.Equal(t, 1, calls)

	silent := &ProgressWriter{}
	_, err = silent.Write([]byte("x"))
	assert.NoError(t, err)
}
