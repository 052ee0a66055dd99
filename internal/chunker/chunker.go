// Package chunker splits extracted document text into bounded, retrievable
// units. Boundary policy: sentence-delimiter splitting with strict token-count
// closing — text is split on sentence boundaries and sentences are greedily
// accumulated until the token budget is reached. The policy must stay constant
// across re-ingests of the same corpus.
package chunker

import (
	"strings"

	"github.com/recallify-labs/recallify/internal/domain"
)

// DefaultMaxTokens is the default per-chunk token budget, sized for common
// embedding model context limits.
const DefaultMaxTokens = 300

// sentenceDelimiter marks sentence boundaries. Splitting and rejoining on the
// same delimiter keeps chunking lossless: concatenating all chunks with the
// delimiter reconstructs the input.
const sentenceDelimiter = ". "

// SentenceChunker accumulates whole sentences into chunks up to a token
// budget. Tokens are approximated by whitespace-delimited words. A chunker is
// a pure transformation; it owns no state between calls.
type SentenceChunker struct {
	maxTokens int
}

// New creates a chunker with the given token budget per chunk.
func New(maxTokens int) *SentenceChunker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &SentenceChunker{maxTokens: maxTokens}
}

// MaxTokens returns the configured per-chunk budget.
func (c *SentenceChunker) MaxTokens() int { return c.maxTokens }

// Chunk splits text into ordered chunks. Sentences are never split across
// chunks: a chunk closes once its accumulated word count reaches the budget,
// so a single oversized sentence still forms its own chunk. Empty input
// yields no chunks. Output is deterministic for a given input and budget.
func (c *SentenceChunker) Chunk(text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sentences := strings.Split(text, sentenceDelimiter)

	var chunks []domain.Chunk
	var current []string
	tokenCount := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		content := strings.Join(current, sentenceDelimiter)
		chunks = append(chunks, domain.NewChunk(content, len(chunks)))
		current = current[:0]
		tokenCount = 0
	}

	for _, sentence := range sentences {
		tokenCount += len(strings.Fields(sentence))
		current = append(current, sentence)

		if tokenCount >= c.maxTokens {
			flush()
		}
	}

	// Trailing partial chunk below budget is always flushed.
	flush()

	return chunks
}
