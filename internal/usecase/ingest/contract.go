package ingest

import (
	"context"

	"github.com/recallify-labs/recallify/internal/domain"
)

// Extractor turns an uploaded file into plain text.
type Extractor interface {
	Extract(ctx context.Context, filename string, content []byte) (string, error)
}

// Chunker splits text into boundary-respecting chunks.
type Chunker interface {
	Chunk(text string) []domain.Chunk
}

// Embedder vectorizes chunk texts in bulk.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Repository persists a document's records atomically.
type Repository interface {
	AddDocument(ctx context.Context, records []domain.StoredRecord) error
}
