package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/recallify-labs/recallify/internal/chunker"
	"github.com/recallify-labs/recallify/internal/domain"
)

// mockExtractor returns fixed text or an error.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Extract(_ context.Context, _ string, _ []byte) (string, error) {
	return m.text, m.err
}

// mockEmbedder returns one vector per input text.
type mockEmbedder struct {
	dims   int
	tokens int
	err    error
	gotIn  []string
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.gotIn = texts
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range embeddings {
		embeddings[i] = make([]float32, m.dims)
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings, TotalTokens: m.tokens}, nil
}

// mockRepo records what was written.
type mockRepo struct {
	err  error
	got  []domain.StoredRecord
	hits int
}

func (m *mockRepo) AddDocument(_ context.Context, records []domain.StoredRecord) error {
	m.hits++
	m.got = records
	return m.err
}

func newTestService(t *testing.T, text string, dims int) (*Service, *mockEmbedder, *mockRepo) {
	t.Helper()
	emb := &mockEmbedder{dims: dims, tokens: 10}
	repo := &mockRepo{}
	svc := New(&mockExtractor{text: text}, chunker.New(300), emb, repo, dims)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "doc-fixed" }
	return svc, emb, repo
}
