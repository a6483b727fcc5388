// Package mailarchive extracts an aggregated narrative from email
// archives: ZIP containers of .eml files whose internal paths form a
// folder hierarchy, and flat mbox files treated as a single folder.
//
// The archive pass is bounded: per folder at most maxMessagesPerFolder
// messages are summarised (subject, sender, a body excerpt), producing
// one summary-of-summaries document rather than one record per
// message. A per-message parse failure is logged and skipped.
package mailarchive

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dspeziale/docsearch/internal/core/ports/driven"
	"github.com/dspeziale/docsearch/internal/logger"
	"github.com/dspeziale/docsearch/internal/normalisers/eml"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const (
	// maxMessagesPerFolder bounds the per-folder traversal.
	maxMessagesPerFolder = 50

	// bodyExcerptChars bounds each message's body contribution.
	bodyExcerptChars = 500
)

// Extractor handles email archive documents.
type Extractor struct{}

// New creates a new mail archive extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".zip", ".mbox"}
}

// Extract walks the archive's folder hierarchy and emits, per folder,
// up to maxMessagesPerFolder message digests.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".mbox") {
		return extractMbox(ctx, path)
	}
	return extractZip(ctx, path)
}

// extractZip reads a ZIP of .eml files; entry directories are the
// folder hierarchy.
func extractZip(ctx context.Context, archivePath string) (string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	folders := make(map[string][]*zip.File)
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if !strings.EqualFold(path.Ext(file.Name), ".eml") {
			continue
		}
		folder := path.Dir(file.Name)
		if folder == "." {
			folder = "/"
		}
		folders[folder] = append(folders[folder], file)
	}

	names := make([]string, 0, len(folders))
	for name := range folders {
		names = append(names, name)
	}
	sort.Strings(names)

	var text strings.Builder
	for _, folder := range names {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fmt.Fprintf(&text, "\n=== Folder: %s ===\n", folder)

		count := 0
		for _, file := range folders[folder] {
			if count >= maxMessagesPerFolder {
				break
			}

			rc, err := file.Open()
			if err != nil {
				logger.Warn("archive %s: skipping %s: %v", archivePath, file.Name, err)
				continue
			}
			msg, err := eml.ReadMessage(rc)
			rc.Close()
			if err != nil {
				logger.Warn("archive %s: skipping %s: %v", archivePath, file.Name, err)
				continue
			}

			writeDigest(&text, msg)
			count++
		}
	}

	return strings.TrimSpace(text.String()), nil
}

// extractMbox reads a classic mbox file as a single folder named
// after the file.
func extractMbox(ctx context.Context, mboxPath string) (string, error) {
	f, err := os.Open(mboxPath)
	if err != nil {
		return "", fmt.Errorf("open mbox: %w", err)
	}
	defer f.Close()

	folder := strings.TrimSuffix(filepath.Base(mboxPath), filepath.Ext(mboxPath))

	var text strings.Builder
	fmt.Fprintf(&text, "=== Folder: %s ===\n", folder)

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var current bytes.Buffer
	flush := func() {
		if current.Len() == 0 || count >= maxMessagesPerFolder {
			current.Reset()
			return
		}
		msg, err := eml.ReadMessage(bytes.NewReader(current.Bytes()))
		current.Reset()
		if err != nil {
			logger.Warn("mbox %s: skipping message: %v", mboxPath, err)
			return
		}
		writeDigest(&text, msg)
		count++
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line := scanner.Text()
		// "From " at column zero separates mbox messages.
		if strings.HasPrefix(line, "From ") {
			flush()
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan mbox: %w", err)
	}

	return strings.TrimSpace(text.String()), nil
}

// writeDigest appends one message's subject, sender, and bounded body
// excerpt to the aggregated narrative.
func writeDigest(text *strings.Builder, msg *eml.Message) {
	text.WriteString("\nMessage: ")
	text.WriteString(msg.Subject)
	text.WriteString("\nFrom: ")
	text.WriteString(msg.From)
	text.WriteString("\n")

	body := []rune(strings.TrimSpace(msg.Body))
	if len(body) > bodyExcerptChars {
		body = body[:bodyExcerptChars]
	}
	if len(body) > 0 {
		text.WriteString(string(body))
		text.WriteString("\n")
	}
}
