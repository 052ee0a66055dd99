package record

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/recallify-labs/recallify/internal/db"
	"github.com/recallify-labs/recallify/internal/domain"
)

// listPageSize bounds a single FT.SEARCH page when walking all records.
const listPageSize = 1000

// store is the consumer interface for record persistence (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	DelMulti(ctx context.Context, keys []string) (int, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements the vector store over Redis hashes plus an FT index.
type Repo struct {
	store store
	cfg   domain.VectorConfig
	hnsw  HNSWConfig
}

// New creates a record repository.
func New(s store, cfg domain.VectorConfig) *Repo {
	return &Repo{store: s, cfg: cfg, hnsw: HNSWConfig{M: defaultHNSWM, EFConstruct: defaultHNSWEFConstruct}}
}

// HNSWConfig tunes the vector index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

const (
	defaultHNSWM           = 16
	defaultHNSWEFConstruct = 200
)

// WithHNSW overrides the HNSW build parameters. Zero values keep the defaults.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureIndex creates the record index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName())
	if err != nil {
		return fmt.Errorf("check index %s: %w", indexName(), err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     indexName(),
		Prefixes: []string{recordKeyPrefix()},
		Fields: []db.IndexField{
			{Name: fieldDocumentID, Type: db.IndexFieldTag},
			{Name: fieldChunkIndex, Type: db.IndexFieldNumeric},
			{
				Name:              fieldVector,
				Type:              db.IndexFieldVector,
				VectorAlgo:        vectorAlgorithm(r.cfg.Algorithm),
				VectorDim:         r.cfg.Dimensions,
				VectorDistance:    distanceMetric(r.cfg.DistanceMetric),
				VectorM:           r.hnsw.M,
				VectorEFConstruct: r.hnsw.EFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", indexName(), err)
	}
	return nil
}

// AddDocument persists all records of a document in one pipelined write.
// Either every record lands or none do: a failed pipeline triggers a
// cleanup of the document's keys before the error is returned.
func (r *Repo) AddDocument(ctx context.Context, records []domain.StoredRecord) error {
	if len(records) == 0 {
		return domain.ErrEmptyInput
	}

	items := make([]db.HashSetItem, len(records))
	keys := make([]string, len(records))
	for i := range records {
		keys[i] = recordKey(records[i].ID)
		items[i] = db.HashSetItem{Key: keys[i], Fields: buildHashFields(&records[i])}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		if _, delErr := r.store.DelMulti(ctx, keys); delErr != nil {
			return fmt.Errorf("write rollback failed: %w: %w", domain.ErrPartialWrite, delErr)
		}
		return fmt.Errorf("write document records: %w", err)
	}
	return nil
}

// GetChunks returns every record of a document ordered by chunk index.
// An unknown document yields an empty slice, not an error.
func (r *Repo) GetChunks(ctx context.Context, documentID string) ([]domain.StoredRecord, error) {
	query := fmt.Sprintf("@%s:{%s}", fieldDocumentID, escapeTag(documentID))
	fields := []string{
		fieldContent, fieldDocumentID, fieldChunkIndex,
		fieldFilename, fieldUploadTimestamp, fieldCharacterCount, fieldWordCount,
	}

	var records []domain.StoredRecord
	for offset := 0; ; offset += listPageSize {
		sr, err := r.store.SearchList(ctx, indexName(), query, offset, listPageSize, fields)
		if err != nil {
			return nil, fmt.Errorf("list chunks %s: %w", documentID, err)
		}
		if sr == nil || len(sr.Entries) == 0 {
			break
		}
		for _, entry := range sr.Entries {
			records = append(records, parseRecordEntry(entry))
		}
		if offset+len(sr.Entries) >= sr.Total {
			break
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ChunkIndex < records[j].ChunkIndex
	})
	return records, nil
}

// ListTexts returns up to limit record texts in index order. Used to
// assemble generation context from the library.
func (r *Repo) ListTexts(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	sr, err := r.store.SearchList(ctx, indexName(), "*", 0, limit, []string{fieldContent})
	if err != nil {
		return nil, fmt.Errorf("list texts: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		texts = append(texts, entry.Fields[fieldContent])
	}
	return texts, nil
}

// ListAll aggregates every stored record into per-document summaries.
// Summaries are ordered by upload time, newest first.
func (r *Repo) ListAll(ctx context.Context) ([]domain.DocumentSummary, error) {
	fields := []string{
		fieldContent, fieldDocumentID, fieldChunkIndex,
		fieldFilename, fieldUploadTimestamp, fieldCharacterCount, fieldWordCount,
	}

	byDoc := make(map[string]*domain.DocumentSummary)
	previews := make(map[string]string)

	for offset := 0; ; offset += listPageSize {
		sr, err := r.store.SearchList(ctx, indexName(), "*", offset, listPageSize, fields)
		if err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}
		if sr == nil || len(sr.Entries) == 0 {
			break
		}

		for _, entry := range sr.Entries {
			rec := parseRecordEntry(entry)
			sum, ok := byDoc[rec.DocumentID]
			if !ok {
				sum = &domain.DocumentSummary{
					DocumentID:      rec.DocumentID,
					Filename:        rec.Metadata.Filename,
					UploadTimestamp: rec.Metadata.UploadTimestamp,
				}
				byDoc[rec.DocumentID] = sum
			}
			sum.ChunkCount++
			sum.TotalCharacters += len(rec.Text)
			sum.TotalWords += len(strings.Fields(rec.Text))
			if rec.ChunkIndex == 0 {
				previews[rec.DocumentID] = rec.Text
			}
		}

		if offset+len(sr.Entries) >= sr.Total {
			break
		}
	}

	summaries := make([]domain.DocumentSummary, 0, len(byDoc))
	for id, sum := range byDoc {
		sum.ContentPreview = domain.Preview(previews[id])
		summaries = append(summaries, *sum)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UploadTimestamp.After(summaries[j].UploadTimestamp)
	})
	return summaries, nil
}

// DeleteDocument removes every record of a document. Returns true when at
// least one record was removed.
func (r *Repo) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	chunks, err := r.GetChunks(ctx, documentID)
	if err != nil {
		return false, err
	}
	if len(chunks) == 0 {
		return false, nil
	}

	keys := make([]string, len(chunks))
	for i, c := range chunks {
		keys[i] = recordKey(c.ID)
	}

	removed, err := r.store.DelMulti(ctx, keys)
	if err != nil {
		return false, fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return removed > 0, nil
}

// SearchKNN returns the topK records nearest to the query vector, ordered
// by ascending cosine distance.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, topK int) ([]domain.SearchHit, error) {
	q := &db.KNNQuery{
		IndexName: indexName(),
		Vector:    vector,
		K:         topK,
		ReturnFields: []string{
			fieldContent, fieldDocumentID, fieldChunkIndex,
			fieldFilename, fieldUploadTimestamp, fieldCharacterCount, fieldWordCount,
		},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	hits := make([]domain.SearchHit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		rec := parseRecordEntry(entry)
		hits = append(hits, domain.SearchHit{
			Content:    rec.Text,
			DocumentID: rec.DocumentID,
			ChunkIndex: rec.ChunkIndex,
			Metadata:   rec.Metadata,
			Distance:   entry.Distance,
		})
	}
	return hits, nil
}

// Count returns the total number of stored records.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Clear removes every record key. The index itself stays in place.
func (r *Repo) Clear(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, recordKeyPrefix()+"*")
	if err != nil {
		return 0, fmt.Errorf("scan records: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	removed, err := r.store.DelMulti(ctx, keys)
	if err != nil {
		return 0, fmt.Errorf("clear records: %w", err)
	}
	return removed, nil
}

func recordKeyPrefix() string {
	return domain.KeyPrefix + "records:"
}

func recordKey(recordID string) string {
	return recordKeyPrefix() + recordID
}

func indexName() string {
	return domain.KeyPrefix + "records:idx"
}

// escapeTag escapes punctuation that has syntactic meaning inside a TAG
// query, so document IDs with hyphens match literally.
func escapeTag(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch c {
		case '-', '.', ':', '{', '}', '|', '@', ' ':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func vectorAlgorithm(s string) db.VectorAlgorithm {
	if strings.EqualFold(s, "flat") {
		return db.VectorFlat
	}
	return db.VectorHNSW
}

func distanceMetric(s string) db.DistanceMetric {
	if strings.EqualFold(s, "l2") {
		return db.DistanceL2
	}
	return db.DistanceCosine
}
