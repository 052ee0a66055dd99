package chi

import (
	"time"

	"github.com/recallify-labs/recallify/internal/domain"
	ingestuc "github.com/recallify-labs/recallify/internal/usecase/ingest"
)

// errorCode is the machine-readable error discriminator in error responses.
type errorCode string

const (
	codeBadRequest              errorCode = "bad_request"
	codeUnauthorized            errorCode = "unauthorized"
	codeValidationFailed        errorCode = "validation_failed"
	codeDocumentNotFound        errorCode = "document_not_found"
	codeUnsupportedFileType     errorCode = "unsupported_file_type"
	codeExtractionUnavailable   errorCode = "extraction_unavailable"
	codeVectorDimMismatch       errorCode = "vector_dim_mismatch"
	codePartialWrite            errorCode = "partial_write"
	codeEmbeddingProviderError  errorCode = "embedding_provider_error"
	codeGenerationProviderError errorCode = "generation_provider_error"
	codeInternalError           errorCode = "internal_error"
)

// ErrorResponse is the uniform error body for every non-2xx response.
type ErrorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// UploadResponse summarizes one completed ingestion.
type UploadResponse struct {
	DocumentID      string `json:"document_id"`
	Filename        string `json:"filename"`
	ChunkCount      int    `json:"chunk_count"`
	TotalCharacters int    `json:"total_characters"`
	TotalWords      int    `json:"total_words"`
}

// DocumentSummary is one entry in the document listing.
type DocumentSummary struct {
	DocumentID      string    `json:"document_id"`
	Filename        string    `json:"filename"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
	ChunkCount      int       `json:"chunk_count"`
	TotalCharacters int       `json:"total_characters"`
	TotalWords      int       `json:"total_words"`
	ContentPreview  string    `json:"content_preview"`
}

// ListDocumentsResponse is the document listing plus library-wide totals.
type ListDocumentsResponse struct {
	Documents    []DocumentSummary `json:"documents"`
	TotalRecords int               `json:"total_records"`
}

// Chunk is one stored record of a document, embeddings omitted.
type Chunk struct {
	ID             string `json:"id"`
	ChunkIndex     int    `json:"chunk_index"`
	Content        string `json:"content"`
	CharacterCount int    `json:"character_count"`
	WordCount      int    `json:"word_count"`
}

// DocumentChunksResponse lists a document's chunks in index order.
type DocumentChunksResponse struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	ChunkCount int     `json:"chunk_count"`
	Chunks     []Chunk `json:"chunks"`
}

// DeleteDocumentResponse confirms a document deletion.
type DeleteDocumentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ClearResponse reports how many records a library wipe removed.
type ClearResponse struct {
	DeletedRecords int `json:"deleted_records"`
}

// SearchRequest is the similarity-query body. TopK is optional.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// SearchHit is one similarity-search result. Lower distance means closer.
type SearchHit struct {
	Content    string  `json:"content"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Filename   string  `json:"filename"`
	Distance   float64 `json:"distance"`
}

// SearchResponse holds ranked hits, closest first.
type SearchResponse struct {
	Results []SearchHit `json:"results"`
	Count   int         `json:"count"`
}

// ConversationTurn is one prior question/answer pair sent by the client.
type ConversationTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FollowupRequest continues a teaching session after the user answered.
type FollowupRequest struct {
	PreviousQuestion string             `json:"previous_question"`
	Answer           string             `json:"answer"`
	History          []ConversationTurn `json:"history,omitempty"`
}

// QuestionResponse carries one generated question.
type QuestionResponse struct {
	Question string `json:"question"`
}

// HealthResponse reports aggregate and per-component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func uploadResponseFrom(res ingestuc.Result) UploadResponse {
	return UploadResponse{
		DocumentID:      res.DocumentID,
		Filename:        res.Filename,
		ChunkCount:      res.ChunkCount,
		TotalCharacters: res.TotalCharacters,
		TotalWords:      res.TotalWords,
	}
}

func summaryFrom(s domain.DocumentSummary) DocumentSummary {
	return DocumentSummary{
		DocumentID:      s.DocumentID,
		Filename:        s.Filename,
		UploadTimestamp: s.UploadTimestamp,
		ChunkCount:      s.ChunkCount,
		TotalCharacters: s.TotalCharacters,
		TotalWords:      s.TotalWords,
		ContentPreview:  s.ContentPreview,
	}
}

func chunkFrom(rec domain.StoredRecord) Chunk {
	return Chunk{
		ID:             rec.ID,
		ChunkIndex:     rec.ChunkIndex,
		Content:        rec.Text,
		CharacterCount: rec.Metadata.CharacterCount,
		WordCount:      rec.Metadata.WordCount,
	}
}

func hitFrom(h domain.SearchHit) SearchHit {
	return SearchHit{
		Content:    h.Content,
		DocumentID: h.DocumentID,
		ChunkIndex: h.ChunkIndex,
		Filename:   h.Metadata.Filename,
		Distance:   h.Distance,
	}
}

func turnsFrom(history []ConversationTurn) []domain.ConversationTurn {
	if len(history) == 0 {
		return nil
	}
	turns := make([]domain.ConversationTurn, len(history))
	for i, t := range history {
		turns[i] = domain.ConversationTurn{Question: t.Question, Answer: t.Answer}
	}
	return turns
}
