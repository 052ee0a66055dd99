package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/recallify-labs/recallify/internal/domain"
)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH (install poppler-utils)")

// ErrUnsupportedType is returned for file types the extractor cannot handle.
var ErrUnsupportedType = errors.New("unsupported file type")

// CommandRunner abstracts external command execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor turns uploaded files into plain text. PDFs go through the
// pdftotext tool; plain text passes through as-is.
type Extractor struct {
	runner CommandRunner
}

// New creates an extractor backed by real command execution.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an extractor with a custom command runner.
func NewWithRunner(r CommandRunner) *Extractor {
	return &Extractor{runner: r}
}

// CheckAvailable verifies the pdftotext binary is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// Extract returns the plain text of an uploaded file, dispatching on the
// filename extension. Empty content is rejected.
func (e *Extractor) Extract(ctx context.Context, filename string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%s: %w", filename, domain.ErrEmptyInput)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return e.extractPDF(ctx, content)
	case ".txt", ".md":
		return string(content), nil
	default:
		return "", fmt.Errorf("%s: %w", filename, ErrUnsupportedType)
	}
}

// extractPDF writes the upload to a temp file and converts it with
// pdftotext, preserving the original layout for better sentence flow.
func (e *Extractor) extractPDF(ctx context.Context, content []byte) (string, error) {
	tmp, err := os.CreateTemp("", "recallify-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp pdf: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp pdf: %w", err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", fmt.Errorf("pdf has no extractable text: %w", domain.ErrEmptyInput)
	}
	return text, nil
}
