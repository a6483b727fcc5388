package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const markdownSample = "# Setup\n\nRun the **installer** and follow the [docs](https://example.com).\n\n- step one\n- step two\n"

func TestExtractKeepsSourceAndRenderedText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.md")
	require.NoError(t, os.WriteFile(path, []byte(markdownSample), 0o644))

	text, err := New().Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, text, "=== MARKDOWN SOURCE ===")
	assert.Contains(t, text, "=== RENDERED TEXT ===")
	// Raw syntax survives in the source section.
	assert.Contains(t, text, "# Setup")
	assert.Contains(t, text, "**installer**")
	// The rendered section is tag-free prose.
	assert.NotContains(t, text, "<strong>")
	assert.NotContains(t, text, "<li>")
	assert.Contains(t, text, "step one")
	assert.Contains(t, text, "step two")
}

func TestExtractMissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".md"}, New().Extensions())
}
