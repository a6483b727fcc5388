package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/logger"
)

const tempIndexSuffix = "_temp"

// Migrate recreates the index with the current mapping while keeping
// every document. Documents are reindexed into a temporary index, the
// original is recreated, and the documents are reindexed back. Each
// copy is verified by count before the source of that copy is deleted,
// so a failed migration never destroys the only copy of the data.
func (i *Index) Migrate(ctx context.Context) error {
	temp := i.name + tempIndexSuffix

	sourceCount, err := i.countDocuments(ctx, i.name)
	if err != nil {
		return err
	}
	logger.Info("Migrating %d documents from %s", sourceCount, i.name)

	tempExists, err := i.indexExists(ctx, temp)
	if err != nil {
		return err
	}
	if tempExists {
		// Leftover from an interrupted migration.
		if err := i.deleteIndex(ctx, temp); err != nil {
			return err
		}
	}
	if err := i.createIndex(ctx, temp); err != nil {
		return err
	}

	if err := i.reindex(ctx, i.name, temp); err != nil {
		return err
	}
	tempCount, err := i.countDocuments(ctx, temp)
	if err != nil {
		return err
	}
	if tempCount != sourceCount {
		return fmt.Errorf("%w: copied %d of %d documents to %s", domain.ErrMigrationMismatch, tempCount, sourceCount, temp)
	}

	if err := i.deleteIndex(ctx, i.name); err != nil {
		return err
	}
	if err := i.createIndex(ctx, i.name); err != nil {
		return err
	}
	if err := i.reindex(ctx, temp, i.name); err != nil {
		return err
	}

	finalCount, err := i.countDocuments(ctx, i.name)
	if err != nil {
		return err
	}
	if finalCount != sourceCount {
		return fmt.Errorf("%w: restored %d of %d documents to %s", domain.ErrMigrationMismatch, finalCount, sourceCount, i.name)
	}

	if err := i.deleteIndex(ctx, temp); err != nil {
		return err
	}
	logger.Info("Migration complete: %d documents", finalCount)
	return nil
}

// reindex copies every document from one index to another and waits
// for the destination to be searchable.
func (i *Index) reindex(ctx context.Context, from, to string) error {
	body := map[string]any{
		"source": map[string]any{"index": from},
		"dest":   map[string]any{"index": to},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: marshal reindex body: %v", domain.ErrQueryFailure, err)
	}

	// Reindex can far outlive the per-request timeout.
	waitTrue := true
	refreshTrue := true
	res, err := opensearchapi.ReindexRequest{
		Body:              bytes.NewReader(payload),
		WaitForCompletion: &waitTrue,
		Refresh:           &refreshTrue,
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return classifyResponse(res)
	}
	logger.Debug("Reindexed %s -> %s", from, to)
	return nil
}

// countDocuments refreshes the index first so writes that have not
// been made searchable yet are still counted.
func (i *Index) countDocuments(ctx context.Context, name string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	refresh, err := opensearchapi.IndicesRefreshRequest{
		Index: []string{name},
	}.Do(ctx, i.client)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	refresh.Body.Close()

	res, err := opensearchapi.CountRequest{
		Index: []string{name},
	}.Do(ctx, i.client)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, classifyResponse(res)
	}

	var parsed struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("%w: decode count response: %v", domain.ErrQueryFailure, err)
	}
	return parsed.Count, nil
}
