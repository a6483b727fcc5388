package driving

import (
	"context"

	"github.com/dspeziale/docsearch/internal/core/domain"
)

// QueryOptions configures one search call.
type QueryOptions struct {
	// Size is the maximum number of results (default 10).
	Size int

	// TagFilter restricts results to documents carrying the tag.
	TagFilter string

	// WithAnswer requests a synthesized answer alongside the results.
	WithAnswer bool
}

// QueryResponse is the query boundary's reply.
type QueryResponse struct {
	Query   string                    `json:"query"`
	Total   int                       `json:"total"`
	Results []domain.SearchResult     `json:"results"`
	Answer  *domain.SynthesizedAnswer `json:"answer,omitempty"`
}

// QueryService is the read path: retrieval plus optional answer
// synthesis, and the document/statistics lookups built on it.
type QueryService interface {
	// Search retrieves matching documents and, when requested,
	// synthesizes a structured answer from them.
	Search(ctx context.Context, query string, opts QueryOptions) (*QueryResponse, error)

	// Document fetches one document by backend id.
	Document(ctx context.Context, id string) (*domain.IndexedDocument, error)

	// DeleteDocument hard-deletes a document by backend id.
	DeleteDocument(ctx context.Context, id string) error

	// Statistics reports index-wide counts and sizes.
	Statistics(ctx context.Context) (*domain.IndexStats, error)

	// Tags enumerates all tags with document counts.
	Tags(ctx context.Context) ([]domain.TagCount, error)

	// Attachments lists the attachment documents of a parent.
	Attachments(ctx context.Context, parentID string) ([]domain.SearchResult, error)
}
