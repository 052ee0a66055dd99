package dialogue

import "context"

// Generator produces free-form text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RecordLister reads stored record texts for context assembly.
type RecordLister interface {
	ListTexts(ctx context.Context, limit int) ([]string, error)
}
