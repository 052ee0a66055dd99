package domain

import "context"

// Generator is the generative text collaborator contract. Returned text is
// free-form natural language; no structural guarantee.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ConversationTurn is one question/answer pair in the teaching dialogue.
// Turns are caller-supplied on every invocation and never persisted by the core.
type ConversationTurn struct {
	Question string
	Answer   string
}
