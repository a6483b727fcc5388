package driven

import "context"

// Extractor converts a file of a known format into plain text.
// Each extractor handles specific extensions (e.g. ".pdf", ".docx")
// and is selected from a lookup table, never by type switching.
type Extractor interface {
	// Extensions returns the lowercase extensions this extractor
	// handles, including the leading dot.
	Extensions() []string

	// Extract reads the file at path and returns its text content.
	// Partial extraction failures inside a document (a bad PDF page,
	// a corrupt archived message) are logged and skipped rather than
	// failing the whole document.
	Extract(ctx context.Context, path string) (string, error)
}

// SavedAttachment is one attachment payload written to disk by an
// AttachmentExtractor.
type SavedAttachment struct {
	// Filename is the attachment's declared name.
	Filename string

	// Path is where the payload was written.
	Path string
}

// AttachmentExtractor is implemented by extractors for container
// formats whose attachments can be materialised to disk as independent
// documents. Extraction of payloads is a separate opt-in operation;
// plain Extract only records an attachment name manifest.
type AttachmentExtractor interface {
	// ExtractAttachments writes every attachment payload under destDir
	// and reports what was written.
	ExtractAttachments(ctx context.Context, path, destDir string) ([]SavedAttachment, error)
}
