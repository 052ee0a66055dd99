package domain

import "errors"

var (
	// ErrEmptyInput signals empty or whitespace-only text handed to the
	// chunker or embedder.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidRecordID signals a record ID that does not decompose into
	// document ID and chunk index.
	ErrInvalidRecordID = errors.New("invalid record id")
	// ErrVectorDimMismatch signals an embedding whose dimensionality differs
	// from the store's configured dimension.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrPartialWrite signals that a failed ingest batch could not be fully
	// rolled back and orphan records may remain.
	ErrPartialWrite = errors.New("partial write")
	// ErrEmbeddingProviderError signals an embedding service failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a generative service failure.
	ErrGenerationProviderError = errors.New("generation provider error")
)
