// Package server exposes the keyword classifier over HTTP using the same
// contract the remote classifier client speaks.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cleared-dev/standardizer/internal/catalog"
	"github.com/cleared-dev/standardizer/internal/classify"
	"github.com/cleared-dev/standardizer/internal/model"
)

const (
	maxBodyBytes    = 4 << 20
	shutdownTimeout = 10 * time.Second
)

// Server answers classification requests.
type Server struct {
	router   *chi.Mux
	fallback *catalog.Store
	logger   *log.Logger
}

// New returns a server. fallback supplies categories when a request sends
// none of its own; it may be nil.
func New(fallback *catalog.Store, logger *log.Logger) *Server {
	if fallback == nil {
		fallback = catalog.NewStore(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		router:   chi.NewRouter(),
		fallback: fallback,
		logger:   logger,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/categorize", s.handleCategorize)
	return s
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Run listens on addr until ctx is cancelled, then drains open requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("starting server", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountName string                 `json:"account_name"`
		Categories  []model.Classification `json:"categories"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.AccountName) == "" || req.Categories == nil {
		writeError(w, http.StatusBadRequest, "account_name and categories are required")
		return
	}

	cat := catalog.FromEntries(req.Categories)
	if cat.Len() == 0 {
		cat = s.fallback.Current()
	}
	result := categorize(req.AccountName, cat)
	s.logger.Debug("categorized", "account", req.AccountName, "accountType", result.AccountType)
	writeJSON(w, http.StatusOK, result)
}

func categorize(name string, cat *catalog.Catalog) model.Classification {
	if model.IsSummaryName(name) {
		return model.UncategorizedClassification()
	}
	if c, ok := cat.Lookup(name); ok {
		return c
	}
	c, _ := classify.Heuristic(name, cat)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
