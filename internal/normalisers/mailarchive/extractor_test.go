package mailarchive

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(subject, from, body string) string {
	return fmt.Sprintf("From: %s\r\nSubject: %s\r\n\r\n%s\r\n", from, subject, body)
}

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mail.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestExtractZipGroupsByFolder(t *testing.T) {
	path := writeZip(t, map[string]string{
		"inbox/one.eml":  message("Order confirmed", "shop@example.com", "Your order shipped."),
		"inbox/two.eml":  message("Newsletter", "news@example.com", "This month in review."),
		"sent/reply.eml": message("Re: Order confirmed", "me@example.com", "Thanks."),
		"readme.txt":     "not a message",
	})

	text, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Contains(t, text, "=== Folder: inbox ===")
	assert.Contains(t, text, "=== Folder: sent ===")
	assert.Contains(t, text, "Message: Order confirmed")
	assert.Contains(t, text, "From: shop@example.com")
	assert.Contains(t, text, "Your order shipped.")
	assert.NotContains(t, text, "not a message")
	// Folders come out sorted.
	assert.Less(t, strings.Index(text, "inbox"), strings.Index(text, "sent"))
}

func TestExtractZipSkipsCorruptMessages(t *testing.T) {
	path := writeZip(t, map[string]string{
		"inbox/good.eml": message("Valid", "a@example.com", "readable"),
		"inbox/bad.eml":  "not : a valid \x00 message without headers",
	})

	text, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Contains(t, text, "Message: Valid")
}

func TestExtractMboxSingleFolder(t *testing.T) {
	mbox := "From alice@example.com Mon Jan  2 15:04:05 2006\n" +
		"From: alice@example.com\n" +
		"Subject: First\n" +
		"\n" +
		"Body of the first message.\n" +
		"From bob@example.com Mon Jan  2 16:04:05 2006\n" +
		"From: bob@example.com\n" +
		"Subject: Second\n" +
		"\n" +
		"Body of the second message.\n"

	path := filepath.Join(t.TempDir(), "backup.mbox")
	require.NoError(t, os.WriteFile(path, []byte(mbox), 0o644))

	text, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Contains(t, text, "=== Folder: backup ===")
	assert.Contains(t, text, "Message: First")
	assert.Contains(t, text, "Message: Second")
	assert.Contains(t, text, "Body of the second message.")
}

func TestExtractMboxBoundsExcerpt(t *testing.T) {
	longBody := strings.Repeat("parola ", 500)
	mbox := "From x@example.com Mon Jan  2 15:04:05 2006\n" +
		"From: x@example.com\n" +
		"Subject: Long\n" +
		"\n" + longBody + "\n"

	path := filepath.Join(t.TempDir(), "big.mbox")
	require.NoError(t, os.WriteFile(path, []byte(mbox), 0o644))

	text, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	// The body contribution is capped well below the raw length.
	assert.Less(t, len(text), 1000)
}
