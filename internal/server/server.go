// Package server provides the HTTP API for the vanban service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/vanban/internal/config"
	"github.com/hyperjump/vanban/internal/notify"
	"github.com/hyperjump/vanban/internal/pipeline"
	"github.com/hyperjump/vanban/internal/search"
	"github.com/hyperjump/vanban/internal/store"
)

// Server is the HTTP server for the vanban API.
type Server struct {
	store          *store.SQLiteStore
	orch           *pipeline.Orchestrator
	index          *search.SegmentIndex
	hub            *notify.Hub
	embeddingReady bool
	config         *config.Config
	logger         *zap.Logger
	server         *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	st *store.SQLiteStore,
	orch *pipeline.Orchestrator,
	index *search.SegmentIndex,
	hub *notify.Hub,
	embeddingReady bool,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		store:          st,
		orch:           orch,
		index:          index,
		hub:            hub,
		embeddingReady: embeddingReady,
		config:         cfg,
		logger:         logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute))
	r.Use(middleware.Compress(5))
	r.Use(allowCORS)

	r.Post("/api/v1/documents/upload", s.handleUpload)
	r.Post("/api/v1/documents/{id}/extract_full_async", s.handleTrigger)
	r.Get("/api/v1/documents/{id}/extraction_result", s.handleExtractionResult)
	r.Get("/api/v1/documents/{id}/extractions", s.handleExtractions)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Get("/api/v1/search", s.handleSearch)
	r.Get("/health", s.handleHealth)
	r.Get("/ws/{id}", s.handleWebSocket)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// allowCORS is a permissive CORS layer; the API is consumed by a
// browser frontend served from another origin.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
