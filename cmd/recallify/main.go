package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/recallify-labs/recallify/internal/chunker"
	"github.com/recallify-labs/recallify/internal/config"
	"github.com/recallify-labs/recallify/internal/db"
	dbRedis "github.com/recallify-labs/recallify/internal/db/redis"
	"github.com/recallify-labs/recallify/internal/domain"
	"github.com/recallify-labs/recallify/internal/extractor"
	logpkg "github.com/recallify-labs/recallify/internal/logger"
	"github.com/recallify-labs/recallify/internal/metrics"
	"github.com/recallify-labs/recallify/internal/repository/embcache"
	recordrepo "github.com/recallify-labs/recallify/internal/repository/record"
	chiTransport "github.com/recallify-labs/recallify/internal/transport/chi"
	openaiT "github.com/recallify-labs/recallify/internal/transport/openai"
	dialogueuc "github.com/recallify-labs/recallify/internal/usecase/dialogue"
	embeddinguc "github.com/recallify-labs/recallify/internal/usecase/embedding"
	healthuc "github.com/recallify-labs/recallify/internal/usecase/health"
	ingestuc "github.com/recallify-labs/recallify/internal/usecase/ingest"
	libraryuc "github.com/recallify-labs/recallify/internal/usecase/library"
	searchuc "github.com/recallify-labs/recallify/internal/usecase/search"
	"github.com/recallify-labs/recallify/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recallify API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterGenerationMetrics()

	// Take the first vectorizer config
	var vecCfg config.VectorizerConfig
	var provName string
	for _, vc := range cfg.Embedding.Vectorizers {
		vecCfg = vc
		provName = vc.Provider
		break
	}
	provCfg := cfg.Embedding.Providers[provName]

	vcfg := domain.DefaultVectorConfig()
	if vecCfg.Model != "" {
		vcfg.Model = vecCfg.Model
	}
	if vecCfg.Dimensions > 0 {
		vcfg.Dimensions = vecCfg.Dimensions
	}
	vcfg.DocumentInstruction = vecCfg.DocumentInstruction
	vcfg.QueryInstruction = vecCfg.QueryInstruction

	var cacheStore db.Store
	if cfg.Embedding.Cache.Enabled {
		cacheStore = store
	}
	docEmbedder := buildEmbedder(provName, provCfg, vcfg, vcfg.DocumentInstruction, cacheStore, logger)
	queryEmbedder := buildEmbedder(provName, provCfg, vcfg, vcfg.QueryInstruction, cacheStore, logger)
	logger.Info("Embedders created",
		zap.String("provider", provName),
		zap.String("model", vcfg.Model),
		zap.Int("dimensions", vcfg.Dimensions),
	)

	recordRepo := recordrepo.New(store, vcfg).WithHNSW(recordrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err := recordRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure record index", zap.Error(err))
	}

	extr := extractor.New()
	if err := extractor.CheckAvailable(); err != nil {
		logger.Warn("PDF extraction unavailable, only plain text uploads will work", zap.Error(err))
	}

	textChunker := chunker.New(cfg.Chunking.MaxTokens)

	generator := openaiT.NewGenerator(&openaiT.GeneratorConfig{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		Provider:    cfg.Generation.Provider,
		Logger:      logger,
	})
	logger.Info("Generator created",
		zap.String("provider", cfg.Generation.Provider),
		zap.String("model", cfg.Generation.Model),
	)

	// Create use case services
	ingestSvc := ingestuc.New(extr, textChunker, docEmbedder, recordRepo, vcfg.Dimensions)
	librarySvc := libraryuc.New(recordRepo)
	searchSvc := searchuc.New(recordRepo, queryEmbedder)
	dialogueSvc := dialogueuc.New(generator, dialogueuc.NewAssembler(recordRepo), logger)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(docEmbedder), extractor.CheckAvailable)

	server := chiTransport.NewServer(ingestSvc, librarySvc, searchSvc, dialogueSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// fullEmbedder is what the decorator chain produces: single plus batch embedding.
type fullEmbedder interface {
	domain.Embedder
	domain.BatchEmbedder
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction
func buildEmbedder(
	provName string,
	provCfg config.ProviderConfig,
	vcfg domain.VectorConfig,
	instruction string,
	cacheStore db.Store,
	logger *zap.Logger,
) fullEmbedder {
	// Base provider (with transport metrics built-in)
	base := openaiT.NewEmbedder(&openaiT.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vcfg.Model,
		Dimensions: vcfg.Dimensions,
		Provider:   provName,
		Logger:     logger,
	})

	// Cached
	var embedder domain.Embedder = base
	if cacheStore != nil {
		embedder = embcache.New(base, cacheStore, vcfg.Model, metrics.EmbeddingCacheTotal, logger)
	}

	// Instrumented (metrics + logging, provider-native batches)
	instrumented := embeddinguc.NewInstrumentedEmbedder(embedder, provName, vcfg.Model, logger)

	// Instruction prefix (outermost — cache key includes instruction)
	if instruction != "" {
		return domain.NewInstructionEmbedder(instrumented, instruction)
	}

	return instrumented
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}
