// Package ocr acquires plain text from invoice source files: direct reads for
// text files, page extraction for PDFs and a vision model for images.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/pharmadocs/invoice-tabulator/constants"
	"github.com/pharmadocs/invoice-tabulator/internal/common"
	"github.com/pharmadocs/invoice-tabulator/internal/extract"
	"github.com/pharmadocs/invoice-tabulator/internal/llm"
)

// Extractor implements extract.TextExtractor over the supported input
// formats. The vision client is optional; without it image files fail with
// ErrInvalidInput.
type Extractor struct {
	vision llm.TextFromImage
	log    *slog.Logger
}

func NewExtractor(vision llm.TextFromImage, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{vision: vision, log: logger}
}

// ExtractText reads path and returns its text content, dispatching on the
// file extension.
func (e *Extractor) ExtractText(ctx context.Context, path string) (extract.TextResult, error) {
	format := constants.MapExtToFormat(filepath.Ext(path))
	switch format {
	case constants.FormatTXT:
		return e.fromTextFile(path)
	case constants.FormatPDF:
		return e.fromPDF(path)
	case constants.FormatImage:
		return e.fromImage(ctx, path)
	default:
		return extract.TextResult{}, common.NewAppError(
			"UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported file type: %s", filepath.Ext(path)),
			common.ErrInvalidInput,
		)
	}
}

func (e *Extractor) fromTextFile(path string) (extract.TextResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return extract.TextResult{}, common.WrapError(err, "READ_ERROR", "read text file")
	}
	return extract.TextResult{Text: string(b), Format: constants.FormatTXT, Pages: 1}, nil
}

// fromPDF concatenates the text of every page in order.
func (e *Extractor) fromPDF(path string) (extract.TextResult, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return extract.TextResult{}, common.WrapError(err, "PDF_OPEN_ERROR", "open pdf")
	}
	defer func() {
		if err := doc.Close(); err != nil {
			e.log.Warn("ocr.pdf_close_error", "path", path, "error", err)
		}
	}()

	var sb strings.Builder
	pages := doc.NumPage()
	for i := 0; i < pages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			return extract.TextResult{}, common.WrapError(err, "PDF_PAGE_ERROR", fmt.Sprintf("read pdf page %d", i+1))
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	e.log.Debug("ocr.pdf_text_ok", "path", path, "pages", pages, "text_len", sb.Len())
	return extract.TextResult{Text: sb.String(), Format: constants.FormatPDF, Pages: pages}, nil
}

func (e *Extractor) fromImage(ctx context.Context, path string) (extract.TextResult, error) {
	if e.vision == nil {
		return extract.TextResult{}, common.NewAppError(
			"NO_VISION_SERVICE",
			"image input requires a vision extraction service",
			common.ErrInvalidInput,
		)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return extract.TextResult{}, common.WrapError(err, "READ_ERROR", "read image file")
	}
	text, err := e.vision.ExtractText(ctx, b)
	if err != nil {
		return extract.TextResult{}, common.WrapError(err, "VISION_ERROR", "image text extraction failed")
	}
	return extract.TextResult{Text: text, Format: constants.FormatImage, Pages: 1}, nil
}
