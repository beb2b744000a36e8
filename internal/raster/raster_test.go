package raster

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/docname/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFirstPageImagePassthrough(t *testing.T) {
	dir := t.TempDir()
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}
	path := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	encoded, err := NewConverter().RenderFirstPage(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), encoded)
}

func TestRenderFirstPageMissingImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.jpg")

	_, err := NewConverter().RenderFirstPage(context.Background(), path)
	require.Error(t, err)

	var ioErr *contract.IOError
	assert.True(t, errors.As(err, &ioErr))
}

func TestRenderFirstPageInvalidPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := NewConverter().RenderFirstPage(context.Background(), path)
	require.Error(t, err)

	var convErr *contract.ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, path, convErr.Path)
}

func TestRenderFirstPageUppercaseExtension(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("jpeg bytes")
	path := filepath.Join(dir, "SCAN.JPG")
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	// Non-PDF extensions pass through regardless of case
	encoded, err := NewConverter().RenderFirstPage(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), encoded)
}
