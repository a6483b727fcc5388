// Package markdown extracts text from Markdown documents.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/dspeziale/docsearch/internal/core/ports/driven"
	"github.com/dspeziale/docsearch/internal/normalisers/html"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Markdown documents.
type Extractor struct {
	md goldmark.Markdown
}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{md: goldmark.New()}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".md"}
}

// Extract renders the Markdown to HTML and strips tags for a clean
// text view, but the output keeps BOTH the original source and the
// rendered text under labelled sections. Raw syntax tokens staying in
// the index buys richer matching at the cost of clean output.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}

	var rendered bytes.Buffer
	if err := e.md.Convert(src, &rendered); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	text := html.StripTags(rendered.String())

	return fmt.Sprintf("=== MARKDOWN SOURCE ===\n%s\n\n=== RENDERED TEXT ===\n%s",
		strings.TrimSpace(string(src)), text), nil
}
