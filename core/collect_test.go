package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFilesFlat(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "b.pdf", "b")
	writeTestFile(t, dir, "a.PDF", "a")
	writeTestFile(t, dir, "photo.jpg", "p")
	writeTestFile(t, dir, "notes.txt", "ignored")

	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(nested, 0o755))
	writeTestFile(t, nested, "deep.pdf", "d")

	files, err := CollectFiles([]string{dir}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.PDF"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "photo.jpg"),
	}, files)
}

func TestCollectFilesRecursive(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "top.pdf", "t")

	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(nested, 0o755))
	writeTestFile(t, nested, "deep.png", "d")
	writeTestFile(t, nested, "skip.docx", "s")

	files, err := CollectFiles([]string{dir}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(nested, "deep.png"),
		filepath.Join(dir, "top.pdf"),
	}, files)
}

func TestCollectFilesExplicitAndDeduped(t *testing.T) {
	dir := t.TempDir()
	doc := writeTestFile(t, dir, "doc.pdf", "x")
	writeTestFile(t, dir, "readme.md", "ignored")

	// Listing the file and its directory must not duplicate it
	files, err := CollectFiles([]string{doc, dir}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{doc}, files)
}

func TestCollectFilesMissingPath(t *testing.T) {
	_, err := CollectFiles([]string{filepath.Join(t.TempDir(), "nope")}, false)
	assert.Error(t, err)
}

func TestIsSupportedFile(t *testing.T) {
	assert.True(t, isSupportedFile("scan.pdf"))
	assert.True(t, isSupportedFile("SCAN.TIFF"))
	assert.True(t, isSupportedFile("photo.webp"))
	assert.False(t, isSupportedFile("notes.txt"))
	assert.False(t, isSupportedFile("archive.zip"))
	assert.False(t, isSupportedFile("noext"))
}
