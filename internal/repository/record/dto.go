package record

import (
	"encoding/binary"
	"math"
	"strconv"
	"time"

	"github.com/recallify-labs/recallify/internal/db"
	"github.com/recallify-labs/recallify/internal/domain"
)

// Hash field names. fieldVector carries the embedding as packed float32
// bytes and backs the vector index; everything else indexes or describes
// the chunk.
const (
	fieldContent         = "content"
	fieldDocumentID      = "document_id"
	fieldChunkIndex      = "chunk_index"
	fieldFilename        = "filename"
	fieldUploadTimestamp = "upload_timestamp"
	fieldCharacterCount  = "character_count"
	fieldWordCount       = "word_count"
	fieldVector          = "vector"
)

// buildHashFields converts a stored record into a flat map[string]string for HSET.
func buildHashFields(rec *domain.StoredRecord) map[string]string {
	return map[string]string{
		fieldContent:         rec.Text,
		fieldDocumentID:      rec.DocumentID,
		fieldChunkIndex:      strconv.Itoa(rec.ChunkIndex),
		fieldFilename:        rec.Metadata.Filename,
		fieldUploadTimestamp: rec.Metadata.UploadTimestamp.UTC().Format(time.RFC3339),
		fieldCharacterCount:  strconv.Itoa(rec.Metadata.CharacterCount),
		fieldWordCount:       strconv.Itoa(rec.Metadata.WordCount),
		fieldVector:          vectorToBytes(rec.Embedding),
	}
}

// parseRecordEntry reconstructs a stored record from a search entry's hash
// fields. The embedding is left empty unless the vector field was returned.
func parseRecordEntry(entry db.SearchEntry) domain.StoredRecord {
	f := entry.Fields

	chunkIndex, _ := strconv.Atoi(f[fieldChunkIndex])
	charCount, _ := strconv.Atoi(f[fieldCharacterCount])
	wordCount, _ := strconv.Atoi(f[fieldWordCount])
	uploaded, _ := time.Parse(time.RFC3339, f[fieldUploadTimestamp])

	docID := f[fieldDocumentID]
	rec := domain.StoredRecord{
		ID:         domain.RecordID(docID, chunkIndex),
		DocumentID: docID,
		ChunkIndex: chunkIndex,
		Text:       f[fieldContent],
		Metadata: domain.RecordMetadata{
			Filename:        f[fieldFilename],
			UploadTimestamp: uploaded,
			CharacterCount:  charCount,
			WordCount:       wordCount,
		},
	}
	if raw, ok := f[fieldVector]; ok {
		rec.Embedding = bytesToVector(raw)
	}
	return rec
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
