package domain

// IndexStats summarises the index contents.
type IndexStats struct {
	// TotalDocuments is the document count across the index.
	TotalDocuments int `json:"total_documents"`

	// TotalSize is the summed file_size of all documents, in bytes.
	TotalSize int64 `json:"total_size"`

	// ByType counts documents per human-readable type label.
	ByType map[string]int `json:"by_type"`

	// ByExtension counts documents per extension.
	ByExtension map[string]int `json:"by_extension"`
}

// TagCount is one bucket of the tag enumeration aggregation.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
