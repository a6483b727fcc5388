// Package spreadsheet extracts text from Excel workbooks and CSV files.
package spreadsheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dspeziale/docsearch/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// maxRows bounds extraction cost on large sheets: only the first
// maxRows data rows of each sheet are rendered, later rows are
// silently omitted.
const maxRows = 100

// Extractor handles spreadsheet documents.
type Extractor struct{}

// New creates a new spreadsheet extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
// Legacy binary .xls workbooks that are not OOXML fail at open time.
func (e *Extractor) Extensions() []string {
	return []string{".xls", ".xlsx", ".csv"}
}

// Extract renders each sheet (or the single CSV table) as a header
// line, a separator rule, and up to maxRows pipe-delimited data rows.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return extractCSV(path)
	}
	return extractWorkbook(path)
}

func extractWorkbook(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var text strings.Builder

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintf(&text, "\n=== Sheet: %s ===\n\n", sheet)
		writeTable(&text, rows[0], rows[1:])
	}

	return text.String(), nil
}

func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	var text strings.Builder
	writeTable(&text, records[0], records[1:])
	return text.String(), nil
}

// writeTable emits the header, a dashed separator of the header's
// width, and at most maxRows data rows.
func writeTable(text *strings.Builder, header []string, rows [][]string) {
	headerLine := strings.Join(header, " | ")
	text.WriteString(headerLine)
	text.WriteString("\n")
	text.WriteString(strings.Repeat("-", len(headerLine)))
	text.WriteString("\n")

	for i, row := range rows {
		if i >= maxRows {
			break
		}
		text.WriteString(strings.Join(row, " | "))
		text.WriteString("\n")
	}
}
