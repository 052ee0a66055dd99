package search

import (
	"context"
	"fmt"

	"github.com/recallify-labs/recallify/internal/domain"
)

// DefaultTopK bounds the result count when the caller does not ask for one.
const DefaultTopK = 5

// maxTopK caps the result count regardless of what the caller asks for.
const maxTopK = 100

// Service answers similarity queries over the ingested library.
type Service struct {
	repo  Repository
	embed Embedder
}

// New creates a search service. embed must be the query-side embedder so
// asymmetric retrieval instructions line up with the ingest side.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Search embeds the query and returns the topK closest records, ordered by
// ascending distance. An empty library yields an empty slice.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrEmptyInput)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(embResult.TotalTokens)

	hits, err := s.repo.SearchKNN(ctx, embResult.Embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	return hits, nil
}
