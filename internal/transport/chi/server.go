package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/recallify-labs/recallify/internal/domain"
	"github.com/recallify-labs/recallify/internal/extractor"
	healthuc "github.com/recallify-labs/recallify/internal/usecase/health"
	"github.com/recallify-labs/recallify/internal/version"
)

// maxUploadBytes caps the multipart upload body.
const maxUploadBytes = 32 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the REST API.
type Server struct {
	ingest        Ingester
	library       Library
	search        Searcher
	dialogue      Dialogue
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest Ingester,
	library Library,
	search Searcher,
	dialogue Dialogue,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:   ingest,
		library:  library,
		search:   search,
		dialogue: dialogue,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(extractor.ErrUnsupportedType, http.StatusUnsupportedMediaType, codeUnsupportedFileType),
		sentinelHandler(extractor.ErrPDFToolNotFound, http.StatusServiceUnavailable, codeExtractionUnavailable),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrPartialWrite, http.StatusInternalServerError, codePartialWrite),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, codeGenerationProviderError),
	}
	return s
}

// Routes registers all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/documents", s.UploadDocument)
		r.Get("/documents", s.ListDocuments)
		r.Delete("/documents", s.ClearLibrary)
		r.Get("/documents/{documentID}/chunks", s.GetDocumentChunks)
		r.Delete("/documents/{documentID}", s.DeleteDocument)
		r.Post("/search", s.Search)
		r.Get("/questions/initial", s.InitialQuestion)
		r.Post("/questions/followup", s.FollowupQuestion)
	})
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "recallify API is running",
		"version": version.Version,
	})
}

// UploadDocument handles POST /api/v1/documents. Accepts a multipart form
// with a single "file" field and runs the full ingestion pipeline.
func (s *Server) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "multipart field \"file\" is required: "+err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "uploaded file must have a filename")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "read upload: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.ingest.Ingest(ctx, header.Filename, content)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusCreated, uploadResponseFrom(res))
}

// ListDocuments handles GET /api/v1/documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.library.ListDocuments(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	total, err := s.library.CountRecords(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	docs := make([]DocumentSummary, len(summaries))
	for i, sm := range summaries {
		docs[i] = summaryFrom(sm)
	}

	writeJSON(w, http.StatusOK, ListDocumentsResponse{
		Documents:    docs,
		TotalRecords: total,
	})
}

// GetDocumentChunks handles GET /api/v1/documents/{documentID}/chunks.
func (s *Server) GetDocumentChunks(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	records, err := s.library.GetChunks(r.Context(), documentID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, codeDocumentNotFound, "document not found")
		return
	}

	chunks := make([]Chunk, len(records))
	for i, rec := range records {
		chunks[i] = chunkFrom(rec)
	}

	writeJSON(w, http.StatusOK, DocumentChunksResponse{
		DocumentID: documentID,
		Filename:   records[0].Metadata.Filename,
		ChunkCount: len(chunks),
		Chunks:     chunks,
	})
}

// DeleteDocument handles DELETE /api/v1/documents/{documentID}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	deleted, err := s.library.DeleteDocument(r.Context(), documentID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, codeDocumentNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, DeleteDocumentResponse{
		Success: true,
		Message: "document deleted",
	})
}

// ClearLibrary handles DELETE /api/v1/documents.
func (s *Server) ClearLibrary(w http.ResponseWriter, r *http.Request) {
	n, err := s.library.Clear(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ClearResponse{DeletedRecords: n})
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	hits, err := s.search.Search(ctx, req.Query, req.TopK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := make([]SearchHit, len(hits))
	for i, h := range hits {
		results[i] = hitFrom(h)
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, SearchResponse{
		Results: results,
		Count:   len(results),
	})
}

// InitialQuestion handles GET /api/v1/questions/initial.
func (s *Server) InitialQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := s.dialogue.InitialQuestion(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QuestionResponse{Question: question})
}

// FollowupQuestion handles POST /api/v1/questions/followup.
func (s *Server) FollowupQuestion(w http.ResponseWriter, r *http.Request) {
	var req FollowupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	question, err := s.dialogue.FollowupQuestion(
		r.Context(), req.PreviousQuestion, req.Answer, turnsFrom(req.History),
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QuestionResponse{Question: question})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyInput,
		extractor.ErrUnsupportedType,
		extractor.ErrPDFToolNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrPartialWrite,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
