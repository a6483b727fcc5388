// Package normalisers converts heterogeneous source files into the
// uniform SourceDocument record: extracted text, derived keywords and
// summary, and file metadata.
//
// One Extractor exists per format family, selected from an
// extension-keyed lookup table. Keyword and summary derivation is
// applied uniformly after extraction, regardless of source format.
package normalisers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/core/ports/driven"
	"github.com/dspeziale/docsearch/internal/logger"
	"github.com/dspeziale/docsearch/internal/normalisers/docx"
	"github.com/dspeziale/docsearch/internal/normalisers/eml"
	"github.com/dspeziale/docsearch/internal/normalisers/html"
	"github.com/dspeziale/docsearch/internal/normalisers/mailarchive"
	"github.com/dspeziale/docsearch/internal/normalisers/markdown"
	"github.com/dspeziale/docsearch/internal/normalisers/pdf"
	"github.com/dspeziale/docsearch/internal/normalisers/plaintext"
	"github.com/dspeziale/docsearch/internal/normalisers/spreadsheet"
)

// typeLabels maps extensions to human-readable type labels.
var typeLabels = map[string]string{
	".pdf":  "PDF Document",
	".doc":  "Word Document",
	".docx": "Word Document",
	".xls":  "Excel Spreadsheet",
	".xlsx": "Excel Spreadsheet",
	".csv":  "CSV File",
	".html": "HTML Document",
	".htm":  "HTML Document",
	".md":   "Markdown Document",
	".txt":  "Text Document",
	".eml":  "Email Message",
	".mbox": "Email Archive",
	".zip":  "Email Archive",
}

// Normaliser dispatches files to format extractors and derives the
// uniform keyword/summary/metadata record.
type Normaliser struct {
	extractors map[string]driven.Extractor
}

// New creates a Normaliser with every built-in extractor registered.
func New() *Normaliser {
	n := &Normaliser{extractors: make(map[string]driven.Extractor)}
	n.Register(pdf.New())
	n.Register(docx.New())
	n.Register(spreadsheet.New())
	n.Register(html.New())
	n.Register(markdown.New())
	n.Register(plaintext.New())
	n.Register(eml.New())
	n.Register(mailarchive.New())
	return n
}

// Register adds an extractor for every extension it declares.
// A later registration for the same extension wins.
func (n *Normaliser) Register(e driven.Extractor) {
	for _, ext := range e.Extensions() {
		n.extractors[ext] = e
	}
}

// SupportedExtensions lists every registered extension.
func (n *Normaliser) SupportedExtensions() []string {
	exts := make([]string, 0, len(n.extractors))
	for ext := range n.extractors {
		exts = append(exts, ext)
	}
	return exts
}

// Supports reports whether the extension has a registered extractor.
func (n *Normaliser) Supports(ext string) bool {
	_, ok := n.extractors[strings.ToLower(ext)]
	return ok
}

// Normalise converts the file at path into a SourceDocument.
//
// Failure modes: a missing file wraps domain.ErrNotFound, an unknown
// extension wraps domain.ErrUnsupportedFormat, and an extraction error
// wraps domain.ErrParseFailure with the underlying cause preserved.
func (n *Normaliser) Normalise(ctx context.Context, path string) (*domain.SourceDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrParseFailure, path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := n.extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}

	content, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrParseFailure, path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	doc := &domain.SourceDocument{
		Filename:  filepath.Base(path),
		Extension: ext,
		Type:      typeLabels[ext],
		Content:   content,
		Summary:   Summarise(content),
		Keywords:  ExtractKeywords(content),
		Size:      info.Size(),
		Path:      abs,
	}

	logger.Debug("Normalised %s: %d bytes, %d keywords", doc.Filename, doc.Size, len(doc.Keywords))
	return doc, nil
}

// ExtractAttachments materialises the attachment payloads of a
// container document under destDir. Formats without attachment
// support return domain.ErrUnsupportedFormat.
func (n *Normaliser) ExtractAttachments(ctx context.Context, path, destDir string) ([]driven.SavedAttachment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := n.extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}

	attacher, ok := extractor.(driven.AttachmentExtractor)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no attachments", domain.ErrUnsupportedFormat, ext)
	}

	saved, err := attacher.ExtractAttachments(ctx, path, destDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrParseFailure, path, err)
	}
	return saved, nil
}
