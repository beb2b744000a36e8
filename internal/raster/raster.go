// Package raster renders document first pages as base64-encoded PNG images
// for vision model input.
package raster

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/docname/internal/contract"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// popplerBinary renders PDF pages. It must be on PATH for PDF inputs;
// plain image inputs never need it.
const popplerBinary = "pdftoppm"

// renderDPI balances legibility for the model against upload size.
const renderDPI = 150

// Converter implements the Rasterizer contract with pdfcpu validation and
// a poppler subprocess for PDF rendering.
type Converter struct{}

var _ contract.Rasterizer = &Converter{} // Compile-time check

// NewConverter returns a ready Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// RenderFirstPage returns the first page of the document at path as a
// base64-encoded image. Plain image files are passed through unconverted.
func (c *Converter) RenderFirstPage(ctx context.Context, path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		return c.renderPDF(ctx, path)
	}
	return encodeFile(path)
}

// renderPDF validates the PDF and renders page 1 to PNG in a temp dir.
func (c *Converter) renderPDF(ctx context.Context, path string) (string, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, cfg); err != nil {
		return "", &contract.ConversionError{Path: path, Err: fmt.Errorf("invalid PDF: %w", err)}
	}

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return "", &contract.ConversionError{Path: path, Err: fmt.Errorf("failed to count pages: %w", err)}
	}
	if pageCount == 0 {
		return "", &contract.ConversionError{Path: path, Err: errors.New("document has no pages")}
	}

	tempDir, err := os.MkdirTemp("", "docname-raster-*")
	if err != nil {
		return "", &contract.IOError{Path: path, Err: err}
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	outPrefix := filepath.Join(tempDir, "page")
	cmd := exec.CommandContext(ctx, popplerBinary,
		"-png", "-f", "1", "-l", "1", "-r", strconv.Itoa(renderDPI), path, outPrefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", &contract.ConversionError{Path: path, Err: fmt.Errorf("%s not found on PATH. Install poppler to process PDF inputs", popplerBinary)}
		}
		return "", &contract.ConversionError{Path: path, Err: fmt.Errorf("%s failed: %v: %s", popplerBinary, err, strings.TrimSpace(string(out)))}
	}

	// Output name digit padding varies with the document's page count
	matches, err := filepath.Glob(outPrefix + "-*.png")
	if err != nil || len(matches) == 0 {
		return "", &contract.ConversionError{Path: path, Err: errors.New("no page image produced")}
	}
	return encodeFile(matches[0])
}

// encodeFile reads a file and returns its base64 encoding.
func encodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &contract.IOError{Path: path, Err: err}
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
