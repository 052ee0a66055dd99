package chi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/recallify-labs/recallify/internal/domain"
	healthuc "github.com/recallify-labs/recallify/internal/usecase/health"
	ingestuc "github.com/recallify-labs/recallify/internal/usecase/ingest"
)

type mockIngester struct {
	ingestFn func(ctx context.Context, filename string, content []byte) (ingestuc.Result, error)
}

func (m *mockIngester) Ingest(ctx context.Context, filename string, content []byte) (ingestuc.Result, error) {
	return m.ingestFn(ctx, filename, content)
}

type mockLibrary struct {
	listFn   func(ctx context.Context) ([]domain.DocumentSummary, error)
	chunksFn func(ctx context.Context, documentID string) ([]domain.StoredRecord, error)
	deleteFn func(ctx context.Context, documentID string) (bool, error)
	countFn  func(ctx context.Context) (int, error)
	clearFn  func(ctx context.Context) (int, error)
}

func (m *mockLibrary) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	return m.listFn(ctx)
}

func (m *mockLibrary) GetChunks(ctx context.Context, documentID string) ([]domain.StoredRecord, error) {
	return m.chunksFn(ctx, documentID)
}

func (m *mockLibrary) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	return m.deleteFn(ctx, documentID)
}

func (m *mockLibrary) CountRecords(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}

func (m *mockLibrary) Clear(ctx context.Context) (int, error) {
	return m.clearFn(ctx)
}

type mockSearcher struct {
	searchFn func(ctx context.Context, query string, topK int) ([]domain.SearchHit, error)
}

func (m *mockSearcher) Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error) {
	return m.searchFn(ctx, query, topK)
}

type mockDialogue struct {
	initialFn  func(ctx context.Context) (string, error)
	followupFn func(ctx context.Context, prevQuestion, answer string, history []domain.ConversationTurn) (string, error)
}

func (m *mockDialogue) InitialQuestion(ctx context.Context) (string, error) {
	return m.initialFn(ctx)
}

func (m *mockDialogue) FollowupQuestion(
	ctx context.Context, prevQuestion, answer string, history []domain.ConversationTurn,
) (string, error) {
	return m.followupFn(ctx, prevQuestion, answer, history)
}

type mockHealth struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealth) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

type serverMocks struct {
	ingest   *mockIngester
	library  *mockLibrary
	search   *mockSearcher
	dialogue *mockDialogue
	health   *mockHealth
}

// newTestServer builds a router over mocks so tests exercise real routing.
func newTestServer(t *testing.T) (http.Handler, *serverMocks) {
	t.Helper()

	mocks := &serverMocks{
		ingest:   &mockIngester{},
		library:  &mockLibrary{},
		search:   &mockSearcher{},
		dialogue: &mockDialogue{},
		health:   &mockHealth{},
	}

	srv := NewServer(
		mocks.ingest, mocks.library, mocks.search, mocks.dialogue, mocks.health,
		zap.NewNop(),
	)

	r := chi.NewRouter()
	srv.Routes(r)
	return r, mocks
}

// multipartBody builds a single-file multipart form for upload tests.
func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func testSummary(docID string) domain.DocumentSummary {
	return domain.DocumentSummary{
		DocumentID:      docID,
		Filename:        "notes.pdf",
		UploadTimestamp: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		ChunkCount:      3,
		TotalCharacters: 450,
		TotalWords:      90,
		ContentPreview:  "photosynthesis converts light",
	}
}

func testRecord(docID string, idx int, text string) domain.StoredRecord {
	return domain.StoredRecord{
		ID:         domain.RecordID(docID, idx),
		DocumentID: docID,
		ChunkIndex: idx,
		Text:       text,
		Metadata: domain.RecordMetadata{
			Filename:        "notes.pdf",
			UploadTimestamp: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			CharacterCount:  len(text),
			WordCount:       2,
		},
	}
}
