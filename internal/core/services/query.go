package services

import (
	"context"
	"strings"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/core/ports/driven"
	"github.com/dspeziale/docsearch/internal/core/ports/driving"
	"github.com/dspeziale/docsearch/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

const defaultResultSize = 10

// QueryService drives the read path: retrieval, optional answer
// synthesis, and the lookups built on the index.
type QueryService struct {
	index    driven.DocumentIndex
	answerer driven.AnswerStrategy
}

// NewQueryService creates a new query service.
func NewQueryService(index driven.DocumentIndex, answerer driven.AnswerStrategy) *QueryService {
	return &QueryService{
		index:    index,
		answerer: answerer,
	}
}

// Search retrieves matching documents and, when requested, synthesizes
// an answer from them. Answer synthesis never fails the search: it
// operates on whatever results retrieval produced, including none.
func (s *QueryService) Search(ctx context.Context, query string, opts driving.QueryOptions) (*driving.QueryResponse, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	size := opts.Size
	if size <= 0 {
		size = defaultResultSize
	}

	var filters domain.SearchFilters
	if tag := strings.TrimSpace(opts.TagFilter); tag != "" {
		filters = domain.SearchFilters{"tags": tag}
	}

	page, err := s.index.Search(ctx, query, size, filters)
	if err != nil {
		return nil, err
	}

	resp := &driving.QueryResponse{
		Query:   query,
		Total:   page.Total,
		Results: page.Results,
	}

	if opts.WithAnswer {
		resp.Answer = s.answerer.Synthesize(ctx, query, page.Results)
	}
	return resp, nil
}

// Document fetches one document by id.
func (s *QueryService) Document(ctx context.Context, id string) (*domain.IndexedDocument, error) {
	return s.index.Get(ctx, id)
}

// DeleteDocument hard-deletes a document by id.
func (s *QueryService) DeleteDocument(ctx context.Context, id string) error {
	return s.index.Delete(ctx, id)
}

// Statistics reports index-wide counts and sizes.
func (s *QueryService) Statistics(ctx context.Context) (*domain.IndexStats, error) {
	return s.index.Stats(ctx)
}

// Tags enumerates all tags with document counts.
func (s *QueryService) Tags(ctx context.Context) ([]domain.TagCount, error) {
	return s.index.Tags(ctx)
}

// Attachments lists the attachment documents of a parent.
func (s *QueryService) Attachments(ctx context.Context, parentID string) ([]domain.SearchResult, error) {
	return s.index.Attachments(ctx, parentID)
}
