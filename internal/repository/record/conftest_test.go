package record

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/recallify-labs/recallify/internal/db"
	"github.com/recallify-labs/recallify/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	delMultiFn    func(ctx context.Context, keys []string) (int, error)
	scanFn        func(ctx context.Context, pattern string) ([]string, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchListFn  func(
		ctx context.Context, index, query string, offset, limit int, fields []string,
	) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, index, query string) (int, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) DelMulti(ctx context.Context, keys []string) (int, error) {
	if m.delMultiFn != nil {
		return m.delMultiFn(ctx, keys)
	}
	return len(keys), nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, index, query, offset, limit, fields)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, domain.DefaultVectorConfig())
	return repo, ms
}

func testRecords(t *testing.T, docID string, n int) []domain.StoredRecord {
	t.Helper()
	uploaded := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	records := make([]domain.StoredRecord, n)
	for i := range records {
		text := "chunk " + strconv.Itoa(i) + " text"
		records[i] = domain.StoredRecord{
			ID:         domain.RecordID(docID, i),
			DocumentID: docID,
			ChunkIndex: i,
			Text:       text,
			Embedding:  testVector(4),
			Metadata: domain.RecordMetadata{
				Filename:        "notes.pdf",
				UploadTimestamp: uploaded,
				CharacterCount:  len(text),
				WordCount:       3,
			},
		}
	}
	return records
}

func testVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}
	return vec
}

// testEntry builds a search entry the way the db layer returns hash fields.
func testEntry(docID string, chunkIndex int, text string, distance float64) db.SearchEntry {
	return db.SearchEntry{
		Key:      recordKey(domain.RecordID(docID, chunkIndex)),
		Distance: distance,
		Fields: map[string]string{
			fieldContent:         text,
			fieldDocumentID:      docID,
			fieldChunkIndex:      strconv.Itoa(chunkIndex),
			fieldFilename:        "notes.pdf",
			fieldUploadTimestamp: "2026-03-10T12:00:00Z",
			fieldCharacterCount:  strconv.Itoa(len(text)),
			fieldWordCount:       strconv.Itoa(3),
		},
	}
}
