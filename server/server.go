// Package server hosts the HTTP API around the knowledge graph: uploads,
// ontology review, graph storage, export and chat.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TFMV/ontograph/chat"
	"github.com/TFMV/ontograph/config"
	"github.com/TFMV/ontograph/export"
	"github.com/TFMV/ontograph/metrics"
	"github.com/TFMV/ontograph/models"
	"github.com/TFMV/ontograph/store"
)

const timeoutBody = `{"error":"Service Unavailable","message":"request timed out"}`

// Server serves the API
type Server struct {
	cfg       config.ServerConfig
	store     store.GraphStore
	exporter  export.Exporter
	responder chat.Responder
	metrics   *metrics.Registry
	startTime time.Time

	mu     sync.RWMutex
	latest string
}

// Option configures a Server
type Option func(*Server)

// WithStore sets the graph store, in memory by default
func WithStore(gs store.GraphStore) Option {
	return func(s *Server) { s.store = gs }
}

// WithExporter sets the exporter, disabled by default
func WithExporter(e export.Exporter) Option {
	return func(s *Server) { s.exporter = e }
}

// WithResponder replaces the chat responder, which answers from the latest
// graph by default
func WithResponder(r chat.Responder) Option {
	return func(s *Server) { s.responder = r }
}

// WithMetrics sets the metrics registry
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Server) { s.metrics = r }
}

// New creates a server
func New(cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store.NewMemoryStore(),
		exporter:  export.Disabled{},
		metrics:   metrics.NewRegistry(),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.responder == nil {
		s.responder = chat.NewGraphResponder(s.latestGraph)
	}
	return s
}

// Handler returns the routed API with metrics and the request timeout
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleNotFound)
	mux.HandleFunc("/api/upload", s.handleUpload)
	mux.HandleFunc("/api/validate-ontology", s.handleValidateOntology)
	mux.HandleFunc("/api/graph", s.handleGraph)
	mux.HandleFunc("/api/graphs", s.handleGraphs)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	return http.TimeoutHandler(s.metricsMiddleware(mux), s.cfg.RequestTimeout, timeoutBody)
}

// Start listens on the configured address until ctx is done, then shuts
// down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s...", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}

// Latest returns the id of the most recently stored graph
func (s *Server) Latest() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Server) put(ctx context.Context, g *models.Graph) error {
	if err := s.store.Put(ctx, g); err != nil {
		return err
	}
	s.mu.Lock()
	s.latest = g.ID
	s.mu.Unlock()
	if ids, err := s.store.List(ctx); err == nil {
		s.metrics.SetGraphsStored(len(ids))
	}
	return nil
}

func (s *Server) latestGraph(ctx context.Context) (*models.Graph, error) {
	id := s.Latest()
	if id == "" {
		return nil, store.ErrNotFound
	}
	return s.store.Get(ctx, id)
}
