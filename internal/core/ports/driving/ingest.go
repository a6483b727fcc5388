package driving

import (
	"context"

	"github.com/dspeziale/docsearch/internal/core/domain"
)

// IngestResult reports one successfully indexed document.
type IngestResult struct {
	// ID is the backend-assigned document identifier.
	ID string `json:"id"`

	// Filename is the indexed file name.
	Filename string `json:"filename"`

	// Type is the human-readable document type label.
	Type string `json:"type"`

	// Size is the source file size in bytes.
	Size int64 `json:"size"`

	// Keywords are the derived keywords, at most 20.
	Keywords []string `json:"keywords"`

	// Tags are the cleaned user-supplied tags.
	Tags []string `json:"tags"`
}

// BatchFailure records one file that failed during batch ingestion.
type BatchFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// BatchResult tallies a batch ingestion. A batch never aborts on a
// per-file failure; successes and failures are reported side by side.
type BatchResult struct {
	Uploaded int            `json:"uploaded"`
	Failed   int            `json:"failed"`
	Results  []IngestResult `json:"results"`
	Failures []BatchFailure `json:"failures"`
}

// IngestOptions carries the caller-supplied metadata for one file.
type IngestOptions struct {
	// Tags is a free-form label list. Blanks and duplicates are removed.
	Tags []string

	// SourceURL optionally records where the file was fetched from.
	SourceURL string
}

// IngestService is the upload/ingest boundary: normalise a file and
// write it to the search index.
type IngestService interface {
	// Ingest normalises and indexes a single file.
	Ingest(ctx context.Context, path string, opts IngestOptions) (*IngestResult, error)

	// IngestBatch processes each file independently, continuing past
	// per-file failures.
	IngestBatch(ctx context.Context, paths []string, opts IngestOptions) *BatchResult

	// IngestAttachments extracts the attachment payloads of an already
	// indexed container document (email message) to disk and indexes
	// each as an independent document with parent linkage.
	IngestAttachments(ctx context.Context, path, parentID string, opts IngestOptions) (*BatchResult, error)

	// Normalize runs format normalisation only, without indexing.
	Normalize(ctx context.Context, path string) (*domain.SourceDocument, error)
}
