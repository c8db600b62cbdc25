package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from PDFs using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty,
// "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText runs pdftotext -layout on the given PDF and returns stdout.
func (p *PdfToText) ExtractText(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", path, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", path, stderr.String())
	}

	return stdout.String(), nil
}

// DocExtractor routes a document to the right tool by extension: PDFs go
// through pdftotext, images through tesseract, and plain text is read
// directly.
type DocExtractor struct {
	pdf   *PdfToText
	image *Tesseract
}

// NewDocExtractor creates the default extension-routing extractor.
func NewDocExtractor(pdfToTextPath, tesseractPath string) *DocExtractor {
	return &DocExtractor{
		pdf:   NewPdfToText(pdfToTextPath),
		image: NewTesseract(tesseractPath),
	}
}

func (d *DocExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return d.pdf.ExtractText(ctx, path)
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return d.image.ExtractText(ctx, path)
	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", eris.Wrapf(err, "ocr: read %s", path)
		}
		return string(raw), nil
	default:
		return "", eris.Errorf("ocr: unsupported file type %s", filepath.Ext(path))
	}
}
