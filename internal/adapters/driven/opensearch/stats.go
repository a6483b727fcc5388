package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dspeziale/docsearch/internal/core/domain"
)

type bucketAgg struct {
	Buckets []struct {
		Key      string `json:"key"`
		DocCount int    `json:"doc_count"`
	} `json:"buckets"`
}

// Stats reports corpus-wide counts by type and extension plus the
// total stored size. Aggregations run with size 0 so no hits travel
// over the wire.
func (i *Index) Stats(ctx context.Context) (*domain.IndexStats, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	body := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			"by_type": map[string]any{
				"terms": map[string]any{"field": "type", "size": 50},
			},
			"by_extension": map[string]any{
				"terms": map[string]any{"field": "extension", "size": 50},
			},
			"total_size": map[string]any{
				"sum": map[string]any{"field": "file_size"},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal stats query: %v", domain.ErrQueryFailure, err)
	}

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

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
		} `json:"hits"`
		Aggregations struct {
			ByType      bucketAgg `json:"by_type"`
			ByExtension bucketAgg `json:"by_extension"`
			TotalSize   struct {
				Value float64 `json:"value"`
			} `json:"total_size"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode stats response: %v", domain.ErrQueryFailure, err)
	}

	stats := &domain.IndexStats{
		TotalDocuments: parsed.Hits.Total.Value,
		TotalSize:      int64(parsed.Aggregations.TotalSize.Value),
		ByType:         map[string]int{},
		ByExtension:    map[string]int{},
	}
	for _, b := range parsed.Aggregations.ByType.Buckets {
		stats.ByType[b.Key] = b.DocCount
	}
	for _, b := range parsed.Aggregations.ByExtension.Buckets {
		stats.ByExtension[b.Key] = b.DocCount
	}
	return stats, nil
}

// Tags reports every distinct tag with its document count, most used
// first.
func (i *Index) Tags(ctx context.Context) ([]domain.TagCount, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	body := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			"all_tags": map[string]any{
				"terms": map[string]any{
					"field": "tags",
					"size":  100,
					"order": map[string]any{"_count": "desc"},
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal tags query: %v", domain.ErrQueryFailure, err)
	}

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

	var parsed struct {
		Aggregations struct {
			AllTags bucketAgg `json:"all_tags"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode tags response: %v", domain.ErrQueryFailure, err)
	}

	tags := make([]domain.TagCount, 0, len(parsed.Aggregations.AllTags.Buckets))
	for _, b := range parsed.Aggregations.AllTags.Buckets {
		tags = append(tags, domain.TagCount{Tag: b.Key, Count: b.DocCount})
	}
	return tags, nil
}

// Attachments lists the indexed attachments of a parent document in
// the order they were indexed.
func (i *Index) Attachments(ctx context.Context, parentID string) ([]domain.SearchResult, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"is_attachment": true}},
					map[string]any{"term": map[string]any{"parent_document_id": parentID}},
				},
			},
		},
		"size": 100,
		"sort": []any{
			map[string]any{"indexed_at": map[string]any{"order": "asc"}},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal attachments query: %v", domain.ErrQueryFailure, err)
	}

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
		return nil, fmt.Errorf("%w: decode attachments response: %v", domain.ErrQueryFailure, err)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		results = append(results, toSearchResult(hit))
	}
	return results, nil
}
