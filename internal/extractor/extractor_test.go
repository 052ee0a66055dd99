package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/recallify-labs/recallify/internal/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error

	gotName string
	gotArgs []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.gotName = name
	m.gotArgs = args
	return m.output, m.err
}

func TestExtract_PlainText(t *testing.T) {
	e := New()
	text, err := e.Extract(context.Background(), "notes.txt", []byte("hello world"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q", text)
	}
}

func TestExtract_Markdown(t *testing.T) {
	e := New()
	text, err := e.Extract(context.Background(), "README.md", []byte("# Title"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "# Title" {
		t.Errorf("text = %q", text)
	}
}

func TestExtract_EmptyContent(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), "notes.txt", nil)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestExtract_UnsupportedType(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), "photo.png", []byte{0x89, 0x50})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtract_PDFViaRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("Extracted PDF text.\n")}
	e := NewWithRunner(runner)

	text, err := e.Extract(context.Background(), "paper.PDF", []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Extracted PDF text." {
		t.Errorf("text = %q", text)
	}
	if runner.gotName != "pdftotext" {
		t.Errorf("command = %s", runner.gotName)
	}
	if len(runner.gotArgs) != 3 || runner.gotArgs[len(runner.gotArgs)-1] != "-" {
		t.Errorf("args = %v", runner.gotArgs)
	}
}

func TestExtract_PDFRunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("pdftotext crashed")}
	e := NewWithRunner(runner)

	_, err := e.Extract(context.Background(), "paper.pdf", []byte("%PDF-1.4 fake"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "pdftotext failed") {
		t.Errorf("error = %v", err)
	}
}

func TestExtract_PDFNoText(t *testing.T) {
	runner := &mockRunner{output: []byte("   \n\n")}
	e := NewWithRunner(runner)

	_, err := e.Extract(context.Background(), "scan.pdf", []byte("%PDF-1.4 fake"))
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}
