package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/logger"
)

// highlightFallbackChars is how much raw summary backs a result when
// the backend produced no highlight at all.
const highlightFallbackChars = 300

// searchResponse is the wire shape of a search reply.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

type searchHit struct {
	ID        string              `json:"_id"`
	Score     *float64            `json:"_score"`
	Source    storedDocument      `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}

// Search plans and runs one query.
//
// An empty query or the literal "*" matches everything. A non-empty
// query is a boosted multi-field fuzzy match with best-fields scoring.
// Filters are exact-match constraints conjoined with the relevance
// query. Results are always sorted by recency (indexed_at descending).
//
// The highlight request covers summary, content, and filename. When
// the backend rejects it because a document exceeds the highlighting
// analysis limit, the identical query is retried once with content
// highlighting removed; that fallback is required behaviour, not an
// optimisation.
func (i *Index) Search(ctx context.Context, query string, size int, filters domain.SearchFilters) (*domain.SearchPage, error) {
	if size <= 0 {
		size = 10
	}

	page, err := i.runSearch(ctx, query, size, filters, true)
	if errors.Is(err, domain.ErrHighlightTooLarge) {
		logger.Warn("Content highlighting exceeded the analysis limit, retrying without it")
		page, err = i.runSearch(ctx, query, size, filters, false)
	}
	return page, err
}

func (i *Index) runSearch(ctx context.Context, query string, size int, filters domain.SearchFilters, highlightContent bool) (*domain.SearchPage, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	body := map[string]any{
		"query":     buildQuery(query, filters),
		"highlight": buildHighlight(highlightContent),
		"size":      size,
		"sort": []any{
			map[string]any{"indexed_at": map[string]any{"order": "desc"}},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal query: %v", domain.ErrQueryFailure, err)
	}
	logger.Debug("Search body: %s", payload)

	res, err := opensearchapi.SearchRequest{
		Index: []string{i.name},
		Body:  bytes.NewReader(payload),
	}.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, classifyResponse(res)
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", domain.ErrQueryFailure, err)
	}

	page := &domain.SearchPage{
		Total:   parsed.Hits.Total.Value,
		Results: make([]domain.SearchResult, 0, len(parsed.Hits.Hits)),
	}
	for _, hit := range parsed.Hits.Hits {
		page.Results = append(page.Results, toSearchResult(hit))
	}

	logger.Debug("Search %q: %d of %d results", query, len(page.Results), page.Total)
	return page, nil
}

// buildQuery constructs the query clause.
func buildQuery(query string, filters domain.SearchFilters) map[string]any {
	var clause map[string]any

	if isMatchAll(query) {
		clause = map[string]any{"match_all": map[string]any{}}
	} else {
		// Best-fields keeps the single strongest field from dominating
		// instead of rewarding a term repeated across many fields.
		clause = map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{
						"multi_match": map[string]any{
							"query": query,
							"fields": []string{
								"content^1",
								"filename^3",
								"summary^2",
								"keywords^2",
								"tags^2",
							},
							"type":      "best_fields",
							"fuzziness": "AUTO",
						},
					},
				},
				"minimum_should_match": 1,
			},
		}
	}

	if len(filters) == 0 {
		return clause
	}

	filterClauses := make([]any, 0, len(filters))
	for field, value := range filters {
		filterClauses = append(filterClauses, map[string]any{
			"term": map[string]any{field: value},
		})
	}

	// Filters are conjoined in a non-scoring context.
	return map[string]any{
		"bool": map[string]any{
			"must":   []any{clause},
			"filter": filterClauses,
		},
	}
}

// buildHighlight constructs the highlight clause. The content field is
// omitted on the reduced-scope retry.
func buildHighlight(withContent bool) map[string]any {
	fields := map[string]any{
		"summary": map[string]any{
			"fragment_size":       200,
			"number_of_fragments": 2,
		},
		"filename": map[string]any{},
	}
	if withContent {
		fields["content"] = map[string]any{
			"fragment_size":       150,
			"number_of_fragments": 3,
			"no_match_size":       150,
		}
	}
	return map[string]any{
		"fields":    fields,
		"pre_tags":  []string{"<mark>"},
		"post_tags": []string{"</mark>"},
	}
}

// toSearchResult normalises one hit. The highlight preference is
// content, then summary fragments joined with " ... ", then filename,
// then the raw summary truncated to 300 characters. A missing score
// defaults to 1.0 because the recency sort suppresses scoring.
func toSearchResult(hit searchHit) domain.SearchResult {
	score := 1.0
	if hit.Score != nil {
		score = *hit.Score
	}

	var highlight string
	switch {
	case len(hit.Highlight["content"]) > 0:
		highlight = strings.Join(hit.Highlight["content"], " ... ")
	case len(hit.Highlight["summary"]) > 0:
		highlight = strings.Join(hit.Highlight["summary"], " ... ")
	case len(hit.Highlight["filename"]) > 0:
		highlight = "File: " + hit.Highlight["filename"][0]
	default:
		highlight = truncateRunes(hit.Source.Summary, highlightFallbackChars)
	}

	return domain.SearchResult{
		ID:               hit.ID,
		Filename:         hit.Source.Filename,
		Type:             hit.Source.Type,
		Extension:        hit.Source.Extension,
		Score:            score,
		Summary:          hit.Source.Summary,
		Keywords:         hit.Source.Keywords,
		Tags:             hit.Source.Tags,
		Highlight:        highlight,
		IndexedAt:        hit.Source.IndexedAt,
		FilePath:         hit.Source.FilePath,
		IsAttachment:     hit.Source.IsAttachment,
		ParentDocumentID: hit.Source.ParentDocumentID,
		ParentFilename:   hit.Source.ParentFilename,
	}
}

// isMatchAll reports whether the query asks for everything. Only the
// empty string and a bare "*" qualify; a whitespace-only query still
// goes through the relevance query.
func isMatchAll(query string) bool {
	return query == "" || strings.TrimSpace(query) == "*"
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
