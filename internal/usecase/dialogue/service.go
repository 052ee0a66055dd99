package dialogue

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/recallify-labs/recallify/internal/domain"
)

const (
	// maxContextRecords bounds how much of the library goes into a prompt.
	maxContextRecords = 10
	// historyWindow bounds how many past turns a follow-up prompt carries.
	historyWindow = 3
	// maxRetries bounds regeneration attempts when the output fails the
	// one-question check. After the last attempt the response is returned
	// as-is with a warning.
	maxRetries = 2
)

// Service drives the teaching dialogue: the generator plays a student
// asking questions grounded in the uploaded material.
type Service struct {
	gen       Generator
	assembler *Assembler
	log       *zap.Logger
}

// New creates a dialogue service.
func New(gen Generator, assembler *Assembler, log *zap.Logger) *Service {
	return &Service{gen: gen, assembler: assembler, log: log}
}

// InitialQuestion opens a teaching session with a question grounded in the
// uploaded material. Fails if the library is empty.
func (s *Service) InitialQuestion(ctx context.Context) (string, error) {
	material, err := s.assembler.BuildContext(ctx, maxContextRecords)
	if err != nil {
		return "", err
	}
	if material == "" {
		return "", fmt.Errorf("no documents uploaded: %w", domain.ErrEmptyInput)
	}

	return s.generateQuestion(ctx, initialQuestionPrompt(material))
}

// FollowupQuestion continues the session, folding the recent turns into the
// prompt so the next question builds on the conversation.
func (s *Service) FollowupQuestion(
	ctx context.Context, prevQuestion, answer string, history []domain.ConversationTurn,
) (string, error) {
	if prevQuestion == "" || answer == "" {
		return "", fmt.Errorf("previous question and answer are required: %w", domain.ErrEmptyInput)
	}

	material, err := s.assembler.BuildContext(ctx, maxContextRecords)
	if err != nil {
		return "", err
	}
	folded := FoldHistory(history, historyWindow)

	return s.generateQuestion(ctx, followupQuestionPrompt(prevQuestion, answer, material, folded))
}

// generateQuestion calls the generator and re-asks when the output is not a
// single question. The last attempt wins regardless, so a quirky model
// degrades the experience instead of breaking the session.
func (s *Service) generateQuestion(ctx context.Context, prompt string) (string, error) {
	var response string
	for attempt := 0; ; attempt++ {
		out, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("generate question: %w: %w", domain.ErrGenerationProviderError, err)
		}

		response = strings.TrimSpace(out)
		if isSingleQuestion(response) {
			return response, nil
		}
		if attempt == maxRetries {
			break
		}
	}

	s.log.Warn("generator output failed one-question check, returning as-is",
		zap.Int("attempts", maxRetries+1),
		zap.Int("question_marks", strings.Count(response, "?")),
	)
	return response, nil
}

// isSingleQuestion accepts non-empty output containing exactly one question mark.
func isSingleQuestion(s string) bool {
	return s != "" && strings.Count(s, "?") == 1
}
