// Package api exposes the ingest and query services over HTTP.
//
// The surface is a small JSON API: search, multipart upload, document
// listing and lookup, deletion, statistics, and tag enumeration.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dspeziale/docsearch/internal/core/ports/driving"
	"github.com/dspeziale/docsearch/internal/logger"
)

// maxUploadBytes caps multipart uploads at 50 MB.
const maxUploadBytes = 50 << 20

// Config holds the HTTP server settings.
type Config struct {
	// Host and Port are the listen address.
	Host string
	Port int

	// UploadDir is where uploaded files are stored before ingestion.
	UploadDir string
}

// Server is the HTTP API server.
type Server struct {
	ingest    driving.IngestService
	query     driving.QueryService
	supported []string
	cfg       Config
	http      *http.Server
}

// NewServer creates the API server. supported is the list of
// ingestible file extensions, reported on unsupported-upload errors.
func NewServer(cfg Config, ingest driving.IngestService, query driving.QueryService, supported []string) *Server {
	s := &Server{
		ingest:    ingest,
		query:     query,
		supported: supported,
		cfg:       cfg,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/upload", s.handleUpload)
		r.Get("/documents", s.handleDocuments)
		r.Get("/document/{id}", s.handleDocument)
		r.Delete("/document/{id}", s.handleDelete)
		r.Get("/document/{id}/attachments", s.handleAttachments)
		r.Get("/statistics", s.handleStatistics)
		r.Get("/tags", s.handleTags)
	})

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown or a fatal
// listener error.
func (s *Server) ListenAndServe() error {
	logger.Info("API listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
