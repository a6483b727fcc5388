package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/core/ports/driving"
	"github.com/dspeziale/docsearch/internal/normalisers"
)

// mockIndex implements driven.DocumentIndex for testing.
type mockIndex struct {
	docs       map[string]*domain.SourceDocument
	nextID     int
	indexErr   error
	searchErr  error
	page       *domain.SearchPage
	lastQuery  string
	lastSize   int
	lastFilter domain.SearchFilters
}

func newMockIndex() *mockIndex {
	return &mockIndex{docs: map[string]*domain.SourceDocument{}}
}

func (m *mockIndex) EnsureIndex(context.Context, bool) error { return nil }

func (m *mockIndex) Index(_ context.Context, doc *domain.SourceDocument) (string, error) {
	if m.indexErr != nil {
		return "", m.indexErr
	}
	m.nextID++
	id := fmt.Sprintf("doc-%d", m.nextID)
	copied := *doc
	m.docs[id] = &copied
	return id, nil
}

func (m *mockIndex) Get(_ context.Context, id string) (*domain.IndexedDocument, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return &domain.IndexedDocument{ID: id, SourceDocument: *doc}, nil
}

func (m *mockIndex) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	delete(m.docs, id)
	return nil
}

func (m *mockIndex) Search(_ context.Context, query string, size int, filters domain.SearchFilters) (*domain.SearchPage, error) {
	m.lastQuery, m.lastSize, m.lastFilter = query, size, filters
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if m.page != nil {
		return m.page, nil
	}
	return &domain.SearchPage{Results: []domain.SearchResult{}}, nil
}

func (m *mockIndex) Stats(context.Context) (*domain.IndexStats, error) {
	return &domain.IndexStats{TotalDocuments: len(m.docs)}, nil
}

func (m *mockIndex) Tags(context.Context) ([]domain.TagCount, error) { return nil, nil }

func (m *mockIndex) Attachments(context.Context, string) ([]domain.SearchResult, error) {
	return nil, nil
}

func (m *mockIndex) Migrate(context.Context) error { return nil }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestSingleFile(t *testing.T) {
	index := newMockIndex()
	svc := NewIngestService(normalisers.New(), index)
	path := writeFile(t, t.TempDir(), "guide.txt", "OpenSearch install guide. Step one: download.")

	result, err := svc.Ingest(context.Background(), path, driving.IngestOptions{
		Tags:      []string{" manual ", "manual", "", "setup"},
		SourceURL: "https://example.com/guide",
	})

	require.NoError(t, err)
	assert.Equal(t, "guide.txt", result.Filename)
	assert.Equal(t, "Text Document", result.Type)
	assert.Contains(t, result.Keywords, "opensearch")
	// Tags are trimmed and deduplicated, order preserved.
	assert.Equal(t, []string{"manual", "setup"}, result.Tags)

	stored := index.docs[result.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "https://example.com/guide", stored.SourceURL)
}

func TestIngestRoundTrip(t *testing.T) {
	index := newMockIndex()
	svc := NewIngestService(normalisers.New(), index)
	path := writeFile(t, t.TempDir(), "note.txt", "Frequenze parole chiave ricerca documento completo.")

	result, err := svc.Ingest(context.Background(), path, driving.IngestOptions{Tags: []string{"appunti"}})
	require.NoError(t, err)

	fetched, err := index.Get(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Filename, fetched.Filename)
	assert.Equal(t, result.Tags, fetched.Tags)
	assert.Equal(t, result.Keywords, fetched.Keywords)
}

func TestIngestBatchContinuesPastFailures(t *testing.T) {
	index := newMockIndex()
	svc := NewIngestService(normalisers.New(), index)
	dir := t.TempDir()

	paths := []string{
		writeFile(t, dir, "one.txt", "first document content"),
		writeFile(t, dir, "two.txt", "second document content"),
		writeFile(t, dir, "bad.xyz", "unsupported payload"),
	}

	batch := svc.IngestBatch(context.Background(), paths, driving.IngestOptions{})

	assert.Equal(t, 2, batch.Uploaded)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, paths[2], batch.Failures[0].Path)
	assert.Contains(t, batch.Failures[0].Reason, ".xyz")
}

func TestIngestMissingFile(t *testing.T) {
	svc := NewIngestService(normalisers.New(), newMockIndex())

	_, err := svc.Ingest(context.Background(), "/missing/file.txt", driving.IngestOptions{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestAttachmentsLinksParent(t *testing.T) {
	index := newMockIndex()
	svc := NewIngestService(normalisers.New(), index)
	dir := t.TempDir()

	raw := "From: a@example.com\r\n" +
		"Subject: Con allegato\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=\"b\"\r\n" +
		"\r\n" +
		"--b\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"See attachment.\r\n" +
		"--b\r\n" +
		"Content-Type: text/plain; name=\"notes.txt\"\r\n" +
		"Content-Disposition: attachment; filename=\"notes.txt\"\r\n" +
		"\r\n" +
		"Attached notes content here.\r\n" +
		"--b--\r\n"
	emlPath := writeFile(t, dir, "mail.eml", raw)

	parent, err := svc.Ingest(context.Background(), emlPath, driving.IngestOptions{})
	require.NoError(t, err)

	batch, err := svc.IngestAttachments(context.Background(), emlPath, parent.ID, driving.IngestOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, batch.Uploaded)
	assert.Equal(t, "notes.txt", batch.Results[0].Filename)

	stored := index.docs[batch.Results[0].ID]
	require.NotNil(t, stored)
	assert.True(t, stored.IsAttachment)
	assert.Equal(t, parent.ID, stored.ParentDocumentID)
	assert.Equal(t, "mail.eml", stored.ParentFilename)
}

func TestIngestAttachmentsUnknownParent(t *testing.T) {
	svc := NewIngestService(normalisers.New(), newMockIndex())
	path := writeFile(t, t.TempDir(), "mail.eml", "From: a@example.com\r\n\r\nbody\r\n")

	_, err := svc.IngestAttachments(context.Background(), path, "no-such-id", driving.IngestOptions{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
