package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recallify-labs/recallify/internal/domain"
)

// Result summarizes a completed ingestion.
type Result struct {
	DocumentID      string
	Filename        string
	ChunkCount      int
	TotalCharacters int
	TotalWords      int
}

// Service runs the ingestion pipeline: extract, chunk, vectorize, persist.
type Service struct {
	extractor Extractor
	chunker   Chunker
	embedder  Embedder
	repo      Repository
	dims      int

	now   func() time.Time
	newID func() string
}

// New creates an ingest service. dims is the expected embedding width;
// vectors of any other width are rejected before anything is written.
func New(extractor Extractor, chunker Chunker, embedder Embedder, repo Repository, dims int) *Service {
	return &Service{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		repo:      repo,
		dims:      dims,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Ingest processes one uploaded file end to end. Each call produces a fresh
// document ID, so re-uploading a file adds a new document rather than
// replacing the old one.
func (s *Service) Ingest(ctx context.Context, filename string, content []byte) (Result, error) {
	text, err := s.extractor.Extract(ctx, filename, content)
	if err != nil {
		return Result{}, fmt.Errorf("extract %s: %w", filename, err)
	}

	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return Result{}, fmt.Errorf("no chunks from %s: %w", filename, domain.ErrEmptyInput)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	batch, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return Result{}, fmt.Errorf("vectorize %s: %w", filename, err)
	}
	domain.UsageFromContext(ctx).AddTokens(batch.TotalTokens)

	if len(batch.Embeddings) != len(chunks) {
		return Result{}, fmt.Errorf(
			"embedding count mismatch: got %d, want %d: %w",
			len(batch.Embeddings), len(chunks), domain.ErrEmbeddingProviderError,
		)
	}
	for i, emb := range batch.Embeddings {
		if s.dims > 0 && len(emb) != s.dims {
			return Result{}, fmt.Errorf(
				"chunk %d: vector dimension mismatch: got %d, want %d: %w",
				i, len(emb), s.dims, domain.ErrVectorDimMismatch,
			)
		}
	}

	docID := s.newID()
	uploaded := s.now().UTC()

	records := make([]domain.StoredRecord, len(chunks))
	result := Result{DocumentID: docID, Filename: filename, ChunkCount: len(chunks)}
	for i, c := range chunks {
		records[i] = domain.StoredRecord{
			ID:         domain.RecordID(docID, c.Index),
			DocumentID: docID,
			ChunkIndex: c.Index,
			Text:       c.Content,
			Embedding:  batch.Embeddings[i],
			Metadata: domain.RecordMetadata{
				Filename:        filename,
				UploadTimestamp: uploaded,
				CharacterCount:  c.CharacterCount,
				WordCount:       c.WordCount,
			},
		}
		result.TotalCharacters += c.CharacterCount
		result.TotalWords += c.WordCount
	}

	if err := s.repo.AddDocument(ctx, records); err != nil {
		return Result{}, fmt.Errorf("store %s: %w", filename, err)
	}

	return result, nil
}
