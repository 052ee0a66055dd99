package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/recallify-labs/recallify/internal/domain"
)

// Assembler builds generation context out of the stored library.
type Assembler struct {
	records RecordLister
}

// NewAssembler creates a context assembler.
func NewAssembler(records RecordLister) *Assembler {
	return &Assembler{records: records}
}

// BuildContext joins up to maxRecords stored texts with blank lines, in the
// order the store returns them. An empty library yields an empty string.
func (a *Assembler) BuildContext(ctx context.Context, maxRecords int) (string, error) {
	texts, err := a.records.ListTexts(ctx, maxRecords)
	if err != nil {
		return "", fmt.Errorf("build context: %w", err)
	}
	return strings.Join(texts, "\n\n"), nil
}

// FoldHistory flattens the last window turns into a transcript block,
// oldest first. Empty history yields an empty string.
func FoldHistory(turns []domain.ConversationTurn, window int) string {
	if window <= 0 || len(turns) == 0 {
		return ""
	}
	if len(turns) > window {
		turns = turns[len(turns)-window:]
	}

	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("Previous Q: %s\nYour Answer: %s", turn.Question, turn.Answer))
	}
	return strings.Join(lines, "\n")
}
