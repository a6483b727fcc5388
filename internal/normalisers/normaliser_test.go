package normalisers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dspeziale/docsearch/internal/core/domain"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNormaliseMissingFile(t *testing.T) {
	n := New()

	_, err := n.Normalise(context.Background(), "/nonexistent/file.txt")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNormaliseUnsupportedExtension(t *testing.T) {
	n := New()
	path := writeTemp(t, "binary.xyz", "payload")

	_, err := n.Normalise(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestNormalisePlainText(t *testing.T) {
	n := New()
	path := writeTemp(t, "guide.txt", "OpenSearch install guide. Step one: download. Step two: configure.")

	doc, err := n.Normalise(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "guide.txt", doc.Filename)
	assert.Equal(t, ".txt", doc.Extension)
	assert.Equal(t, "Text Document", doc.Type)
	assert.GreaterOrEqual(t, doc.Size, int64(0))
	assert.Contains(t, doc.Keywords, "opensearch")
	assert.Contains(t, doc.Summary, "OpenSearch install guide.")
	assert.True(t, filepath.IsAbs(doc.Path))
}

func TestNormaliseSummaryWithinBounds(t *testing.T) {
	n := New()
	long := ""
	for i := 0; i < 200; i++ {
		long += "A sentence that keeps going. "
	}
	path := writeTemp(t, "long.txt", long)

	doc, err := n.Normalise(context.Background(), path)

	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(doc.Summary)), MaxSummaryChars)
	assert.LessOrEqual(t, len(doc.Keywords), MaxKeywords)
}

func TestSupports(t *testing.T) {
	n := New()

	assert.True(t, n.Supports(".pdf"))
	assert.True(t, n.Supports(".EML"))
	assert.True(t, n.Supports(".mbox"))
	assert.False(t, n.Supports(".xyz"))
}

func TestSupportedExtensionsComplete(t *testing.T) {
	n := New()
	exts := n.SupportedExtensions()

	for _, want := range []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".csv", ".html", ".htm", ".md", ".txt", ".eml", ".mbox", ".zip"} {
		assert.Contains(t, exts, want)
	}
}

func TestExtractAttachmentsUnsupportedFormat(t *testing.T) {
	n := New()
	path := writeTemp(t, "plain.txt", "no attachments here")

	_, err := n.ExtractAttachments(context.Background(), path, t.TempDir())

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
