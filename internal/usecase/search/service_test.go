package search

import (
	"context"
	"errors"
	"testing"

	"github.com/recallify-labs/recallify/internal/domain"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	hits    []domain.SearchHit
	err     error
	gotVec  []float32
	gotTopK int
}

func (m *mockRepo) SearchKNN(_ context.Context, vector []float32, topK int) ([]domain.SearchHit, error) {
	m.gotVec = vector
	m.gotTopK = topK
	return m.hits, m.err
}

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	result  domain.EmbeddingResult
	err     error
	gotText string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.gotText = text
	return m.result, m.err
}

func TestSearch_ReturnsOrderedHits(t *testing.T) {
	repo := &mockRepo{
		hits: []domain.SearchHit{
			{Content: "closest", Distance: 0.1},
			{Content: "further", Distance: 0.5},
		},
	}
	emb := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2},
		TotalTokens: 7,
	}}
	svc := New(repo, emb)

	hits, err := svc.Search(context.Background(), "what is recursion", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Content != "closest" {
		t.Errorf("hit 0 = %+v", hits[0])
	}
	if emb.gotText != "what is recursion" {
		t.Errorf("embedded text = %q", emb.gotText)
	}
	if repo.gotTopK != 5 || len(repo.gotVec) != 2 {
		t.Errorf("repo got topK=%d vec=%v", repo.gotTopK, repo.gotVec)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{})
	_, err := svc.Search(context.Background(), "", 5)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestSearch_DefaultsTopK(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}})

	if _, err := svc.Search(context.Background(), "q", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.gotTopK != DefaultTopK {
		t.Errorf("topK = %d, want %d", repo.gotTopK, DefaultTopK)
	}
}

func TestSearch_CapsTopK(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}})

	if _, err := svc.Search(context.Background(), "q", 10000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.gotTopK != maxTopK {
		t.Errorf("topK = %d, want %d", repo.gotTopK, maxTopK)
	}
}

func TestSearch_EmptyLibrary(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}})

	hits, err := svc.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits == nil || len(hits) != 0 {
		t.Errorf("expected empty slice, got %v", hits)
	}
}

func TestSearch_EmbedderError(t *testing.T) {
	embErr := errors.New("rate limited")
	svc := New(&mockRepo{}, &mockEmbedder{err: embErr})

	_, err := svc.Search(context.Background(), "q", 5)
	if !errors.Is(err, embErr) {
		t.Errorf("expected embedder error, got %v", err)
	}
}

func TestSearch_RecordsTokenUsage(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1},
		TotalTokens: 7,
	}})

	ctx, usage := domain.NewContextWithUsage(context.Background())
	if _, err := svc.Search(ctx, "q", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.TotalTokens != 7 {
		t.Errorf("total tokens = %d, want 7", usage.TotalTokens)
	}
}
