package domain

import "time"

// SearchFilters maps exact-match fields to required values.
// Filters are conjoined with the relevance query and never affect score.
type SearchFilters map[string]string

// SearchResult is a single normalised hit from the search backend.
// The json tags are the API wire keys; they mirror the stored field
// names in the index.
type SearchResult struct {
	// ID is the backend-assigned document identifier.
	ID string `json:"id"`

	// Filename is the indexed file name.
	Filename string `json:"filename"`

	// Type is the human-readable document type label.
	Type string `json:"type"`

	// Extension is the lowercase file extension.
	Extension string `json:"extension"`

	// Score is the backend relevance score. Defaults to 1.0 when the
	// backend omits it (a custom sort order suppresses scoring).
	Score float64 `json:"score"`

	// Summary is the stored document summary.
	Summary string `json:"summary"`

	// Keywords are the stored document keywords.
	Keywords []string `json:"keywords"`

	// Tags are the stored document tags.
	Tags []string `json:"tags"`

	// Highlight is an excerpt with match markers, or the first 300
	// characters of the summary when the backend produced none.
	Highlight string `json:"highlight"`

	// IndexedAt is the document write timestamp.
	IndexedAt time.Time `json:"indexed_at"`

	// FilePath is the absolute storage path of the source file.
	FilePath string `json:"file_path"`

	// IsAttachment and the parent fields carry container linkage.
	IsAttachment     bool   `json:"is_attachment"`
	ParentDocumentID string `json:"parent_document_id,omitempty"`
	ParentFilename   string `json:"parent_filename,omitempty"`
}

// SearchPage is the result of one search call.
type SearchPage struct {
	// Total is the full match count, which may exceed len(Results).
	Total int

	// Results are the returned hits, ordered by recency.
	Results []SearchResult
}
