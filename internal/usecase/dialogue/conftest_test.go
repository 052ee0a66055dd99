package dialogue

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

// mockGenerator returns canned responses in order, repeating the last one.
type mockGenerator struct {
	responses  []string
	err        error
	calls      int
	gotPrompts []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.gotPrompts = append(m.gotPrompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	i := m.calls - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

// mockLister returns fixed record texts.
type mockLister struct {
	texts    []string
	err      error
	gotLimit int
}

func (m *mockLister) ListTexts(_ context.Context, limit int) ([]string, error) {
	m.gotLimit = limit
	return m.texts, m.err
}

func newTestService(t *testing.T, gen *mockGenerator, texts []string) *Service {
	t.Helper()
	return New(gen, NewAssembler(&mockLister{texts: texts}), zap.NewNop())
}
