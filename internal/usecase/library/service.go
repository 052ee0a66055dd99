package library

import (
	"context"
	"fmt"

	"github.com/recallify-labs/recallify/internal/domain"
)

// Service exposes the stored document library: listings, per-document
// chunks, and deletion.
type Service struct {
	repo Repository
}

// New creates a library service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListDocuments returns one summary per stored document, newest first.
// An empty library yields an empty slice.
func (s *Service) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	summaries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if summaries == nil {
		summaries = []domain.DocumentSummary{}
	}
	return summaries, nil
}

// GetChunks returns a document's records in chunk order. Unknown document
// IDs yield an empty slice, not an error.
func (s *Service) GetChunks(ctx context.Context, documentID string) ([]domain.StoredRecord, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document id is required: %w", domain.ErrEmptyInput)
	}
	records, err := s.repo.GetChunks(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get chunks %s: %w", documentID, err)
	}
	if records == nil {
		records = []domain.StoredRecord{}
	}
	return records, nil
}

// DeleteDocument removes every record of a document. Returns true when the
// document existed.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	if documentID == "" {
		return false, fmt.Errorf("document id is required: %w", domain.ErrEmptyInput)
	}
	removed, err := s.repo.DeleteDocument(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return removed, nil
}

// CountRecords returns the total number of stored records across documents.
func (s *Service) CountRecords(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Clear wipes the whole library and returns the number of removed records.
func (s *Service) Clear(ctx context.Context) (int, error) {
	removed, err := s.repo.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear library: %w", err)
	}
	return removed, nil
}
