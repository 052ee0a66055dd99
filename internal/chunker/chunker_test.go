package chunker

import (
	"reflect"
	"strings"
	"testing"
)

// sentenceOfWords builds a sentence containing exactly n words.
func sentenceOfWords(n int, word string) string {
	words := make([]string, n)
	for i := range words {
		words[i] = word
	}
	return strings.Join(words, " ")
}

func TestChunk_EmptyInput(t *testing.T) {
	c := New(300)
	for _, text := range []string{"", "   ", "\n\t "} {
		if got := c.Chunk(text); len(got) != 0 {
			t.Errorf("Chunk(%q) = %d chunks, want 0", text, len(got))
		}
	}
}

func TestChunk_Deterministic(t *testing.T) {
	c := New(10)
	text := "One two three. Four five six seven. Eight nine ten eleven twelve. Final words"

	first := c.Chunk(text)
	for i := 0; i < 5; i++ {
		if got := c.Chunk(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestChunk_NoSentenceSplit(t *testing.T) {
	c := New(5)
	text := "alpha beta gamma delta. epsilon zeta eta theta iota. kappa lambda"

	sentences := strings.Split(text, ". ")
	for _, chunk := range c.Chunk(text) {
		// Every chunk must be a join of whole input sentences.
		for _, s := range strings.Split(chunk.Content, ". ") {
			found := false
			for _, orig := range sentences {
				if s == orig {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("chunk fragment %q is not a whole input sentence", s)
			}
		}
	}
}

func TestChunk_Completeness(t *testing.T) {
	c := New(4)
	text := "First sentence here. Second one follows. Third goes on a bit longer. Tail"

	var parts []string
	for _, chunk := range c.Chunk(text) {
		parts = append(parts, chunk.Content)
	}
	if got := strings.Join(parts, ". "); got != text {
		t.Errorf("rejoined chunks != input:\n got %q\nwant %q", got, text)
	}
}

func TestChunk_BudgetBoundaries(t *testing.T) {
	// Sentence token counts [120, 310, 40] under a 300-token budget: the first
	// chunk closes after the second sentence (cumulative 430 >= 300), and the
	// trailing 40-token sentence forms the second chunk. Two chunks, not three.
	text := strings.Join([]string{
		sentenceOfWords(120, "a"),
		sentenceOfWords(310, "b"),
		sentenceOfWords(40, "c"),
	}, ". ")

	chunks := New(300).Chunk(text)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].WordCount != 430 {
		t.Errorf("chunk 0 word count = %d, want 430", chunks[0].WordCount)
	}
	if chunks[1].WordCount != 40 {
		t.Errorf("chunk 1 word count = %d, want 40", chunks[1].WordCount)
	}
}

func TestChunk_OversizedSentenceKept(t *testing.T) {
	// A single sentence exceeding the budget still forms its own chunk.
	text := sentenceOfWords(50, "x")
	chunks := New(10).Chunk(text)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Content != text {
		t.Error("oversized sentence was altered")
	}
}

func TestChunk_IndexesStrictlyIncreasing(t *testing.T) {
	text := strings.Repeat("some words in a sentence. ", 40) + "end"
	for i, chunk := range New(20).Chunk(text) {
		if chunk.Index != i {
			t.Fatalf("chunk %d has index %d", i, chunk.Index)
		}
	}
}

func TestNew_DefaultBudget(t *testing.T) {
	if got := New(0).MaxTokens(); got != DefaultMaxTokens {
		t.Errorf("MaxTokens() = %d, want %d", got, DefaultMaxTokens)
	}
	if got := New(-5).MaxTokens(); got != DefaultMaxTokens {
		t.Errorf("MaxTokens() = %d, want %d", got, DefaultMaxTokens)
	}
}
