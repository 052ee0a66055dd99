package library

import (
	"context"

	"github.com/recallify-labs/recallify/internal/domain"
)

// Repository reads and prunes stored records.
type Repository interface {
	ListAll(ctx context.Context) ([]domain.DocumentSummary, error)
	GetChunks(ctx context.Context, documentID string) ([]domain.StoredRecord, error)
	DeleteDocument(ctx context.Context, documentID string) (bool, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) (int, error)
}
