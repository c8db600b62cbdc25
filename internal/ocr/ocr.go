// Package ocr extracts raw text from claim documents. OCR accuracy is an
// external concern; the pipeline treats whatever comes back as untrusted
// input for the normalizer.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/claims-cli/internal/config"
)

// Extractor extracts text content from a claim document on disk.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "pdftotext", "local", "":
		return NewDocExtractor(cfg.PdfToTextPath, cfg.TesseractPath), nil
	case "tesseract":
		return NewTesseract(cfg.TesseractPath), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
