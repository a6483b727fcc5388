package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/core/ports/driven"
	"github.com/dspeziale/docsearch/internal/core/ports/driving"
	"github.com/dspeziale/docsearch/internal/logger"
	"github.com/dspeziale/docsearch/internal/normalisers"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService drives the write path: normalise a file into a
// SourceDocument and index it.
type IngestService struct {
	normaliser *normalisers.Normaliser
	index      driven.DocumentIndex
}

// NewIngestService creates a new ingest service.
func NewIngestService(normaliser *normalisers.Normaliser, index driven.DocumentIndex) *IngestService {
	return &IngestService{
		normaliser: normaliser,
		index:      index,
	}
}

// Ingest normalises and indexes a single file.
func (s *IngestService) Ingest(ctx context.Context, path string, opts driving.IngestOptions) (*driving.IngestResult, error) {
	doc, err := s.normaliser.Normalise(ctx, path)
	if err != nil {
		return nil, err
	}

	doc.Tags = cleanTags(opts.Tags)
	doc.SourceURL = strings.TrimSpace(opts.SourceURL)

	id, err := s.index.Index(ctx, doc)
	if err != nil {
		return nil, err
	}

	logger.Info("Indexed %s as %s (%d bytes)", doc.Filename, id, doc.Size)
	return &driving.IngestResult{
		ID:       id,
		Filename: doc.Filename,
		Type:     doc.Type,
		Size:     doc.Size,
		Keywords: doc.Keywords,
		Tags:     doc.Tags,
	}, nil
}

// IngestBatch processes each file independently. A per-file failure is
// recorded and the batch continues; only context cancellation stops it.
func (s *IngestService) IngestBatch(ctx context.Context, paths []string, opts driving.IngestOptions) *driving.BatchResult {
	logger.Section("Batch Ingestion")
	logger.Debug("Batch of %d files", len(paths))

	batch := &driving.BatchResult{
		Results:  []driving.IngestResult{},
		Failures: []driving.BatchFailure{},
	}

	for _, path := range paths {
		if ctx.Err() != nil {
			remaining := fmt.Sprintf("batch cancelled: %v", ctx.Err())
			batch.Failed++
			batch.Failures = append(batch.Failures, driving.BatchFailure{Path: path, Reason: remaining})
			continue
		}

		result, err := s.Ingest(ctx, path, opts)
		if err != nil {
			logger.Warn("Failed to ingest %s: %v", path, err)
			batch.Failed++
			batch.Failures = append(batch.Failures, driving.BatchFailure{
				Path:   path,
				Reason: err.Error(),
			})
			continue
		}

		batch.Uploaded++
		batch.Results = append(batch.Results, *result)
	}

	logger.Info("Batch complete: %d uploaded, %d failed", batch.Uploaded, batch.Failed)
	return batch
}

// IngestAttachments materialises the attachments of a container file
// to a temporary directory, then indexes each supported payload as an
// independent document linked to its parent. Unsupported attachment
// formats are reported as failures without aborting the rest.
func (s *IngestService) IngestAttachments(ctx context.Context, path, parentID string, opts driving.IngestOptions) (*driving.BatchResult, error) {
	parent, err := s.index.Get(ctx, parentID)
	if err != nil {
		return nil, err
	}

	destDir, err := os.MkdirTemp("", "docsearch-attachments-")
	if err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}
	defer os.RemoveAll(destDir)

	saved, err := s.normaliser.ExtractAttachments(ctx, path, destDir)
	if err != nil {
		return nil, err
	}

	batch := &driving.BatchResult{
		Results:  []driving.IngestResult{},
		Failures: []driving.BatchFailure{},
	}

	for _, att := range saved {
		doc, err := s.normaliser.Normalise(ctx, att.Path)
		if err != nil {
			logger.Warn("Failed to normalise attachment %s: %v", att.Filename, err)
			batch.Failed++
			batch.Failures = append(batch.Failures, driving.BatchFailure{
				Path:   att.Filename,
				Reason: err.Error(),
			})
			continue
		}

		// The declared attachment name beats the temp file name.
		doc.Filename = att.Filename
		doc.Tags = cleanTags(opts.Tags)
		doc.IsAttachment = true
		doc.ParentDocumentID = parentID
		doc.ParentFilename = parent.Filename

		id, err := s.index.Index(ctx, doc)
		if err != nil {
			batch.Failed++
			batch.Failures = append(batch.Failures, driving.BatchFailure{
				Path:   att.Filename,
				Reason: err.Error(),
			})
			continue
		}

		batch.Uploaded++
		batch.Results = append(batch.Results, driving.IngestResult{
			ID:       id,
			Filename: doc.Filename,
			Type:     doc.Type,
			Size:     doc.Size,
			Keywords: doc.Keywords,
			Tags:     doc.Tags,
		})
	}

	logger.Info("Attachments of %s: %d indexed, %d failed", filepath.Base(path), batch.Uploaded, batch.Failed)
	return batch, nil
}

// Normalize runs format normalisation without indexing.
func (s *IngestService) Normalize(ctx context.Context, path string) (*domain.SourceDocument, error) {
	return s.normaliser.Normalise(ctx, path)
}

// cleanTags trims, drops blanks, and removes duplicates while keeping
// first-seen order.
func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	return cleaned
}
