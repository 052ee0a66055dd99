package domain

import "time"

// DocumentSummary is the materialized aggregation of all stored records
// sharing one document ID. Documents are not stored as first-class entities;
// summaries are computed by grouping records.
type DocumentSummary struct {
	DocumentID      string
	Filename        string
	UploadTimestamp time.Time
	ChunkCount      int
	TotalCharacters int
	TotalWords      int
	ContentPreview  string
}

// previewLen bounds the content preview in document listings.
const previewLen = 100

// Preview truncates chunk content for listing responses.
func Preview(content string) string {
	if len(content) <= previewLen {
		return content
	}
	return content[:previewLen] + "..."
}
