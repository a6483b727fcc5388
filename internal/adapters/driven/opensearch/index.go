package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/logger"
)

// storedDocument is the wire shape of a document in the index.
type storedDocument struct {
	Filename         string         `json:"filename"`
	Extension        string         `json:"extension"`
	Type             string         `json:"type"`
	Content          string         `json:"content"`
	Summary          string         `json:"summary"`
	Keywords         []string       `json:"keywords"`
	Tags             []string       `json:"tags"`
	Metadata         storedMetadata `json:"metadata"`
	IndexedAt        time.Time      `json:"indexed_at"`
	FileSize         int64          `json:"file_size"`
	FilePath         string         `json:"file_path"`
	IsAttachment     bool           `json:"is_attachment"`
	ParentDocumentID string         `json:"parent_document_id"`
	ParentFilename   string         `json:"parent_filename"`
}

// storedMetadata is the opaque structured metadata blob.
type storedMetadata struct {
	Size      int64  `json:"size"`
	Path      string `json:"path"`
	SourceURL string `json:"source_url,omitempty"`
}

// EnsureIndex creates the index with its mapping if missing. With
// force it first deletes any existing index, discarding all data.
func (i *Index) EnsureIndex(ctx context.Context, force bool) error {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	exists, err := i.indexExists(ctx, i.name)
	if err != nil {
		return err
	}

	if exists && force {
		if err := i.deleteIndex(ctx, i.name); err != nil {
			return err
		}
		logger.Info("Deleted existing index: %s", i.name)
		exists = false
	}

	if exists {
		logger.Debug("Index already exists: %s", i.name)
		return nil
	}

	if err := i.createIndex(ctx, i.name); err != nil {
		return err
	}
	logger.Info("Created index: %s", i.name)
	return nil
}

// Index writes a document, stamping indexed_at and refreshing so the
// write is immediately visible to reads. Returns the backend id.
func (i *Index) Index(ctx context.Context, doc *domain.SourceDocument) (string, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	stored := storedDocument{
		Filename:  doc.Filename,
		Extension: doc.Extension,
		Type:      doc.Type,
		Content:   doc.Content,
		Summary:   doc.Summary,
		Keywords:  emptyIfNil(doc.Keywords),
		Tags:      emptyIfNil(doc.Tags),
		Metadata: storedMetadata{
			Size:      doc.Size,
			Path:      doc.Path,
			SourceURL: doc.SourceURL,
		},
		IndexedAt:        time.Now().UTC(),
		FileSize:         doc.Size,
		FilePath:         doc.Path,
		IsAttachment:     doc.IsAttachment,
		ParentDocumentID: doc.ParentDocumentID,
		ParentFilename:   doc.ParentFilename,
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("%w: marshal document: %v", domain.ErrQueryFailure, err)
	}

	res, err := opensearchapi.IndexRequest{
		Index:   i.name,
		Body:    bytes.NewReader(payload),
		Refresh: "true",
	}.Do(ctx, i.client)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", classifyResponse(res)
	}

	var indexed struct {
		ID string `json:"_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&indexed); err != nil {
		return "", fmt.Errorf("%w: decode index response: %v", domain.ErrQueryFailure, err)
	}

	logger.Info("Indexed document: %s (ID: %s)", doc.Filename, indexed.ID)
	return indexed.ID, nil
}

// Get retrieves a document by id.
func (i *Index) Get(ctx context.Context, id string) (*domain.IndexedDocument, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	res, err := opensearchapi.GetRequest{Index: i.name, DocumentID: id}.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	if res.IsError() {
		return nil, classifyResponse(res)
	}

	var got struct {
		ID     string         `json:"_id"`
		Source storedDocument `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		return nil, fmt.Errorf("%w: decode get response: %v", domain.ErrQueryFailure, err)
	}

	return toIndexedDocument(got.ID, got.Source), nil
}

// Delete hard-deletes a document by id.
func (i *Index) Delete(ctx context.Context, id string) error {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	res, err := opensearchapi.DeleteRequest{
		Index:      i.name,
		DocumentID: id,
		Refresh:    "true",
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	if res.IsError() {
		return classifyResponse(res)
	}

	logger.Info("Deleted document: %s", id)
	return nil
}

func (i *Index) indexExists(ctx context.Context, name string) (bool, error) {
	res, err := opensearchapi.IndicesExistsRequest{Index: []string{name}}.Do(ctx, i.client)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()
	return res.StatusCode == http.StatusOK, nil
}

func (i *Index) createIndex(ctx context.Context, name string) error {
	res, err := opensearchapi.IndicesCreateRequest{
		Index: name,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return classifyResponse(res)
	}
	return nil
}

func (i *Index) deleteIndex(ctx context.Context, name string) error {
	res, err := opensearchapi.IndicesDeleteRequest{Index: []string{name}}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return classifyResponse(res)
	}
	return nil
}

func toIndexedDocument(id string, stored storedDocument) *domain.IndexedDocument {
	return &domain.IndexedDocument{
		ID: id,
		SourceDocument: domain.SourceDocument{
			Filename:         stored.Filename,
			Extension:        stored.Extension,
			Type:             stored.Type,
			Content:          stored.Content,
			Summary:          stored.Summary,
			Keywords:         stored.Keywords,
			Tags:             stored.Tags,
			Size:             stored.FileSize,
			Path:             stored.FilePath,
			SourceURL:        stored.Metadata.SourceURL,
			IsAttachment:     stored.IsAttachment,
			ParentDocumentID: stored.ParentDocumentID,
			ParentFilename:   stored.ParentFilename,
		},
		IndexedAt: stored.IndexedAt,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
