package domain

import "strings"

// Chunk is a contiguous, boundary-respecting span of a source document.
// Chunks are created by the chunker and immutable afterwards; they are
// destroyed only by deleting the owning document's stored records.
type Chunk struct {
	Content        string
	Index          int
	CharacterCount int
	WordCount      int
}

// NewChunk builds a chunk from its content, deriving the size counters.
func NewChunk(content string, index int) Chunk {
	return Chunk{
		Content:        content,
		Index:          index,
		CharacterCount: len(content),
		WordCount:      len(strings.Fields(content)),
	}
}
