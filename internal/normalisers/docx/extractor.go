// Package docx extracts text from Word documents (OOXML).
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/dspeziale/docsearch/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Word-family documents.
type Extractor struct{}

// New creates a new Word extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
// Legacy pre-OOXML .doc files that are not ZIP containers fail with a
// parse error at open time.
func (e *Extractor) Extensions() []string {
	return []string{".doc", ".docx"}
}

// Extract concatenates paragraph text, skipping blank paragraphs, and
// flattens tables into pipe-delimited rows in document row order.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}

		return parseDocumentXML(raw)
	}

	return "", fmt.Errorf("no word/document.xml in archive")
}

// documentXML mirrors the parts of word/document.xml we care about.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type table struct {
	Rows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

func parseDocumentXML(raw []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}

	var lines []string

	for _, para := range doc.Body.Paragraphs {
		text := paragraphText(para)
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, text)
	}

	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			cells := make([]string, len(row.Cells))
			for i, cell := range row.Cells {
				var parts []string
				for _, para := range cell.Paragraphs {
					parts = append(parts, paragraphText(para))
				}
				cells[i] = strings.TrimSpace(strings.Join(parts, " "))
			}
			lines = append(lines, strings.Join(cells, " | "))
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func paragraphText(para paragraph) string {
	var b strings.Builder
	for _, r := range para.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}
