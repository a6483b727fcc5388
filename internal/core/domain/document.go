package domain

import "time"

// SourceDocument is the canonical representation of a file after
// normalisation. It is produced once per ingest call, handed to the
// indexing write path, and then discarded; the search backend's copy
// becomes the system of record.
type SourceDocument struct {
	// Filename is the base name of the source file.
	Filename string `json:"filename"`

	// Extension is the lowercase file extension, including the dot.
	Extension string `json:"extension"`

	// Type is the human-readable label derived from the extension
	// (e.g. "PDF Document").
	Type string `json:"type"`

	// Content is the full extracted text. May be multi-megabyte.
	Content string `json:"content"`

	// Summary is a derived excerpt of at most 500 characters,
	// truncated at the last sentence boundary before the cutoff.
	Summary string `json:"summary"`

	// Keywords holds up to 20 lowercase tokens ranked by descending
	// frequency, ties broken by first occurrence.
	Keywords []string `json:"keywords"`

	// Tags are user-supplied labels. Blank entries and duplicates
	// are removed before indexing.
	Tags []string `json:"tags"`

	// Size is the source file size in bytes.
	Size int64 `json:"file_size"`

	// Path is the absolute storage path of the source file.
	Path string `json:"file_path"`

	// SourceURL is the optional origin URL the file was fetched from.
	SourceURL string `json:"source_url,omitempty"`

	// IsAttachment marks documents extracted from a container format
	// such as an email message.
	IsAttachment bool `json:"is_attachment"`

	// ParentDocumentID is the backend id of the containing document.
	ParentDocumentID string `json:"parent_document_id,omitempty"`

	// ParentFilename is the filename of the containing document.
	ParentFilename string `json:"parent_filename,omitempty"`
}

// IndexedDocument is a document as persisted in the search backend:
// a SourceDocument plus the backend-assigned id and write timestamp.
type IndexedDocument struct {
	ID string `json:"id"`

	SourceDocument

	// IndexedAt is stamped by the write path.
	IndexedAt time.Time `json:"indexed_at"`
}
