package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/go-chi/chi/v5"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// RunStore is the read side of the run repository.
type RunStore interface {
	Get(id string) (*models.Run, error)
	List(criteria map[string]any) ([]*models.Run, error)
}

// SnapshotStore loads the snapshot saved with a run.
type SnapshotStore interface {
	Load(runID string) (models.Snapshot, error)
}

// Server serves run history over HTTP.
type Server struct {
	runs        RunStore
	snapshots   SnapshotStore
	logger      *log.Logger
	middlewares []Middleware
}

// NewServer creates a [Server] reading from the given stores.
func NewServer(runs RunStore, snapshots SnapshotStore, logger *log.Logger) *Server {
	return &Server{runs: runs, snapshots: snapshots, logger: logger}
}

// Use adds [Middleware] to the server's stack, applied in the order it's added.
func (s *Server) Use(middleware ...Middleware) {
	s.middlewares = append(s.middlewares, middleware...)
}

// Handler builds the chi router with all routes and middleware registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	for _, m := range s.middlewares {
		r.Use(m)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.handleListRuns)
		r.Get("/{id}", s.handleGetRun)
		r.Get("/{id}/snapshot", s.handleGetSnapshot)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// RequestLogger logs method, path, status and duration for every request.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
