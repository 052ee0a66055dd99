package chi

import (
	"context"

	"github.com/recallify-labs/recallify/internal/domain"
	healthuc "github.com/recallify-labs/recallify/internal/usecase/health"
	ingestuc "github.com/recallify-labs/recallify/internal/usecase/ingest"
)

// Ingester runs the upload pipeline for one file.
type Ingester interface {
	Ingest(ctx context.Context, filename string, content []byte) (ingestuc.Result, error)
}

// Library exposes the stored document collection.
type Library interface {
	ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error)
	GetChunks(ctx context.Context, documentID string) ([]domain.StoredRecord, error)
	DeleteDocument(ctx context.Context, documentID string) (bool, error)
	CountRecords(ctx context.Context) (int, error)
	Clear(ctx context.Context) (int, error)
}

// Searcher answers similarity queries.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error)
}

// Dialogue produces the teaching-session questions.
type Dialogue interface {
	InitialQuestion(ctx context.Context) (string, error)
	FollowupQuestion(ctx context.Context, prevQuestion, answer string, history []domain.ConversationTurn) (string, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
