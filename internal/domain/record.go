package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// recordIDSeparator joins document ID and chunk index in a record ID.
// The composed form lets both be recovered from the ID alone.
const recordIDSeparator = "_chunk_"

// RecordMetadata is the provenance attached to every stored record.
type RecordMetadata struct {
	Filename        string
	UploadTimestamp time.Time
	CharacterCount  int
	WordCount       int
}

// StoredRecord is the unit persisted in the vector store: one chunk plus its
// embedding and provenance. Records are written in bulk during ingest and
// read-only afterwards.
type StoredRecord struct {
	ID         string
	DocumentID string
	ChunkIndex int
	Text       string
	Embedding  []float32
	Metadata   RecordMetadata
}

// RecordID composes the globally unique record ID for a document's chunk.
// document_id + chunk_index uniquely determines a record.
func RecordID(documentID string, chunkIndex int) string {
	return documentID + recordIDSeparator + strconv.Itoa(chunkIndex)
}

// ParseRecordID recovers the parent document ID and chunk index from a
// record ID. Document IDs may themselves contain the separator, so the
// split happens at the last occurrence.
func ParseRecordID(id string) (documentID string, chunkIndex int, err error) {
	pos := strings.LastIndex(id, recordIDSeparator)
	if pos < 0 {
		return "", 0, fmt.Errorf("record id %q: %w", id, ErrInvalidRecordID)
	}
	idx, err := strconv.Atoi(id[pos+len(recordIDSeparator):])
	if err != nil || idx < 0 {
		return "", 0, fmt.Errorf("record id %q: bad chunk index: %w", id, ErrInvalidRecordID)
	}
	return id[:pos], idx, nil
}

// SearchHit is a single similarity-search result. Distance is the cosine
// distance reported by the index; lower means more similar.
type SearchHit struct {
	Content    string
	DocumentID string
	ChunkIndex int
	Metadata   RecordMetadata
	Distance   float64
}
