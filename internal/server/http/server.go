// Package httpserver provides the HTTP REST API server for the publication service.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/siglab/publication-service/internal/database"
	"github.com/siglab/publication-service/internal/ingest"
	"github.com/siglab/publication-service/internal/repository"
	"github.com/siglab/publication-service/internal/review"
)

// Server is the HTTP REST API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	ingest     *ingest.Service
	review     *review.Service
	pubs       repository.PublicationRepository
	members    repository.MemberRepository
	db         *database.DB
	logger     zerolog.Logger
	limiter    *rate.Limiter
	maxUpload  int64
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxUploadBytes  int64
}

// NewServer creates a new HTTP server with all dependencies.
func NewServer(
	cfg Config,
	ingestSvc *ingest.Service,
	reviewSvc *review.Service,
	pubs repository.PublicationRepository,
	members repository.MemberRepository,
	db *database.DB,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		ingest:    ingestSvc,
		review:    reviewSvc,
		pubs:      pubs,
		members:   members,
		db:        db,
		logger:    logger.With().Str("component", "http-server").Logger(),
		maxUpload: cfg.MaxUploadBytes,
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(jsonContentTypeMiddleware)

	// Health endpoints (no rate limiting)
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(rateLimitMiddleware(s.limiter))
		}

		r.Route("/publications", func(r chi.Router) {
			r.Get("/", s.listPublications)

			r.Route("/import", func(r chi.Router) {
				r.Post("/bibtex", s.importBibtex)
				r.Post("/yaml", s.importYaml)
				r.Post("/dblp", s.importDblp)
				r.Get("/yaml/files", s.listYamlFiles)
				r.Get("/dblp/files", s.listDblpFiles)
			})

			r.Route("/pending", func(r chi.Router) {
				r.Delete("/", s.deleteAllPending)
				r.Post("/{publicationID}/approve", s.approvePublication)
			})

			r.Get("/{publicationID}", s.getPublication)
			r.Delete("/{publicationID}", s.deletePublication)
		})

		r.Get("/members", s.listMembers)
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": health.Status})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status":   "unhealthy",
		"database": health.Status,
		"error":    health.Error,
	})
}

// readinessHandler returns readiness status.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": health.Status,
			"error":    health.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "healthy",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort log; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
