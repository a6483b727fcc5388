package docx

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXMLSample = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Installation guide</w:t></w:r></w:p>
    <w:p><w:r><w:t>Download the </w:t></w:r><w:r><w:t>package first.</w:t></w:r></w:p>
    <w:p><w:r><w:t>   </w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Step</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Action</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>1</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Configure</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "guide.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return path
}

func TestExtractParagraphsAndTables(t *testing.T) {
	path := writeDocx(t, documentXMLSample)

	text, err := New().Extract(context.Background(), path)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Installation guide", lines[0])
	assert.Equal(t, "Download the package first.", lines[1])
	assert.Equal(t, "Step | Action", lines[2])
	assert.Equal(t, "1 | Configure", lines[3])
}

func TestExtractSkipsBlankParagraphs(t *testing.T) {
	path := writeDocx(t, documentXMLSample)

	text, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.NotContains(t, text, "\n\n")
}

func TestExtractMissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = New().Extract(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no word/document.xml")
}

func TestExtractNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.doc")
	require.NoError(t, os.WriteFile(path, []byte("plain old binary"), 0o644))

	_, err := New().Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestExtensions(t *testing.T) {
	assert.ElementsMatch(t, []string{".doc", ".docx"}, New().Extensions())
}
