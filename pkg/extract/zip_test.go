package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-sdkmirror/pkg/utils"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestZipFileExtractor(t *testing.T) {
	archive := writeZip(t, map[string]string{
		"Contents/include/windows.h":  "#pragma once\n",
		"Contents/lib/x64/user32.lib": "lib bytes",
		"manifest.json":               "{}",
	})

	dest := t.TempDir()
	z := NewZipFileExtractor(utils.NewLogger(false, false))
	require.NoError(t, z.Extract(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "Contents", "include", "windows.h"))
	require.NoError(t, err)
	assert.Equal(t, "#pragma once\n", string(data))
	assert.FileExists(t, filepath.Join(dest, "Contents", "lib", "x64", "user32.lib"))
	assert.FileExists(t, filepath.Join(dest, "manifest.json"))
}

func TestZipFileExtractorRejectsEscapingEntries(t *testing.T) {
	archive := writeZip(t, map[string]string{
		"../outside.txt": "nope",
	})

	dest := t.TempDir()
	z := NewZipFileExtractor(utils.NewLogger(false, false))

	err := z.Extract(archive, dest)
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "outside.txt"))
}

func TestZipFileExtractorMissingArchive(t *testing.T) {
	z := NewZipFileExtractor(utils.NewLogger(false, false))

	err := z.Extract(filepath.Join(t.TempDir(), "missing.zip"), t.TempDir())
	var extErr *ExtractionError
	assert.ErrorAs(t, err, &extErr)
}
