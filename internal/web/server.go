// Package web serves the dashboard page, the metrics API and the SVG charts.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theirongolddev/edupulse/internal/chart"
	"github.com/theirongolddev/edupulse/internal/metrics"
	"github.com/theirongolddev/edupulse/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// MetricsProvider computes the dashboard payload for a period.
type MetricsProvider interface {
	Complete(ctx context.Context, p metrics.Period) (*model.CompleteMetrics, error)
}

// Config controls the server runtime behavior.
type Config struct {
	Addr          string
	DBPath        string
	DefaultPeriod metrics.Period
	Chart         chart.Options
}

// Status is served at /v1/status.
type Status struct {
	StartedAt     time.Time `json:"started_at"`
	Addr          string    `json:"addr"`
	DBPath        string    `json:"db_path"`
	DefaultPeriod string    `json:"default_period"`
	RequestCount  int64     `json:"request_count"`
	ErrorCount    int64     `json:"error_count"`
	LastError     string    `json:"last_error,omitempty"`
	LastErrorAt   time.Time `json:"last_error_at,omitzero"`
}

// Server provides the HTTP API.
type Server struct {
	cfg     Config
	metrics MetricsProvider
	tmpl    *template.Template
	router  chi.Router

	mu          sync.RWMutex
	startedAt   time.Time
	requests    int64
	errors      int64
	lastError   string
	lastErrorAt time.Time
}

// New returns a server computing metrics with mp.
func New(cfg Config, mp MetricsProvider) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	cfg.DefaultPeriod = metrics.ParsePeriod(string(cfg.DefaultPeriod))
	if cfg.Chart.Width <= 0 {
		cfg.Chart.Width = chart.DefaultWidth
	}
	if cfg.Chart.Height <= 0 {
		cfg.Chart.Height = chart.DefaultHeight
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		metrics:   mp,
		tmpl:      tmpl,
		startedAt: time.Now(),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.countRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/", s.handleDashboard)
	r.Get("/fragments/dashboard", s.handleDashboardFragment)
	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/status", s.handleStatus)
	r.Route("/api", func(r chi.Router) {
		r.Get("/metrics", s.handleMetrics)
		r.Get("/export", s.handleExport)
	})
	r.Route("/charts", func(r chi.Router) {
		r.Get("/audience.svg", s.handleChart(chartAudience))
		r.Get("/retention.svg", s.handleChart(chartRetention))
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Printf("edupulse listening on %s", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("edupulse http server: %w", err)
	}
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// recordError logs err once with the request id and remembers it for /v1/status.
func (s *Server) recordError(r *http.Request, err error) {
	log.Printf("edupulse %s %s [%s]: %v", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)

	s.mu.Lock()
	s.errors++
	s.lastError = err.Error()
	s.lastErrorAt = time.Now()
	s.mu.Unlock()
}

func (s *Server) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:     s.startedAt,
		Addr:          s.cfg.Addr,
		DBPath:        s.cfg.DBPath,
		DefaultPeriod: string(s.cfg.DefaultPeriod),
		RequestCount:  s.requests,
		ErrorCount:    s.errors,
		LastError:     s.lastError,
		LastErrorAt:   s.lastErrorAt,
	}
}
