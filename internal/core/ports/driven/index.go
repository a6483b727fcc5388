package driven

import (
	"context"

	"github.com/dspeziale/docsearch/internal/core/domain"
)

// DocumentIndex is the search backend boundary: schema ownership,
// the document write path, and query planning.
type DocumentIndex interface {
	// EnsureIndex creates the index with its field mapping if it does
	// not exist. Idempotent when force is false. force=true destroys
	// and rebuilds the schema, discarding all data; callers must treat
	// it as irreversible.
	EnsureIndex(ctx context.Context, force bool) error

	// Index writes a document, stamping indexed_at and forcing the
	// write to be immediately visible to reads. Returns the
	// backend-assigned id.
	Index(ctx context.Context, doc *domain.SourceDocument) (string, error)

	// Get retrieves a document by id. Returns domain.ErrNotFound when
	// the id does not exist.
	Get(ctx context.Context, id string) (*domain.IndexedDocument, error)

	// Delete hard-deletes a document by id.
	Delete(ctx context.Context, id string) error

	// Search runs the planned query. An empty or "*" query matches
	// everything. Results are sorted by recency.
	Search(ctx context.Context, query string, size int, filters domain.SearchFilters) (*domain.SearchPage, error)

	// Stats reports document counts and sizes via terms aggregations.
	Stats(ctx context.Context) (*domain.IndexStats, error)

	// Tags enumerates all tags with per-tag document counts.
	Tags(ctx context.Context) ([]domain.TagCount, error)

	// Attachments lists the attachment documents of a parent.
	Attachments(ctx context.Context, parentID string) ([]domain.SearchResult, error)

	// Migrate upgrades the field mapping without losing data:
	// copy to a temporary index, recreate the original with the
	// current mapping, copy back, and verify document counts. A count
	// mismatch returns domain.ErrMigrationMismatch.
	Migrate(ctx context.Context) error
}
