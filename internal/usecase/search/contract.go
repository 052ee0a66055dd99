package search

import (
	"context"

	"github.com/recallify-labs/recallify/internal/domain"
)

// Repository runs vector similarity queries against stored records.
type Repository interface {
	SearchKNN(ctx context.Context, vector []float32, topK int) ([]domain.SearchHit, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
