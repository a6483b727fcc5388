// Package pdf extracts text from PDF files page by page.
package pdf

import (
	"context"
	"fmt"
	"strings"

	ledongpdf "github.com/ledongthuc/pdf"

	"github.com/dspeziale/docsearch/internal/core/ports/driven"
	"github.com/dspeziale/docsearch/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract reads every page of the PDF. A failure extracting an
// individual page is logged and that page skipped; the rest of the
// document still indexes.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	f, reader, err := ledongpdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	total := reader.NumPage()

	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pageText, err := extractPage(reader, num)
		if err != nil {
			logger.Warn("pdf %s: skipping page %d: %v", path, num, err)
			continue
		}
		if pageText == "" {
			continue
		}

		fmt.Fprintf(&text, "\n--- Page %d ---\n", num)
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	return text.String(), nil
}

// extractPage isolates per-page extraction so a malformed content
// stream (which the parser reports by panicking) cannot abort the
// whole document.
func extractPage(reader *ledongpdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page content: %v", r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
