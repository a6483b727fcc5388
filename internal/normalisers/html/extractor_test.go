package html

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTagsRemovesScriptAndStyle(t *testing.T) {
	doc := `<html><head>
<style>body { color: red; }</style>
<script>alert("hi");</script>
</head><body>
<h1>Title</h1>
<p>First paragraph.</p>
<!-- a comment -->
<p>Second &amp; last.</p>
</body></html>`

	text := StripTags(doc)

	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "a comment")
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second & last.")
}

func TestStripTagsDropsEmptyFragments(t *testing.T) {
	text := StripTags("<div>  </div><p>alpha  beta</p>")

	assert.Equal(t, "alpha\nbeta", text)
}

func TestExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>Hello <b>world</b></p>"), 0o644))

	text, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Contains(t, text, "Hello world")
}
