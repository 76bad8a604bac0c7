// Package server exposes the task store and extraction pipeline over
// HTTP: the REST endpoints consumed by the dashboard and the Gmail
// poller, plus the embedded static dashboard itself.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

// Server wraps the HTTP server and its router.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds the router and returns a Server ready to run. The request
// timeout bounds the LLM call on the ingestion path; the extraction
// engine itself imposes no internal timeout.
func New(cfg *models.Config, handler *Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           newRouter(cfg, handler, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func newRouter(cfg *models.Config, handler *Handler, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(middleware.Timeout(cfg.HTTPTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/tasks", handler.GetTasks)
	r.Post("/tasks/complete/{id}", handler.CompleteTask)
	r.Post("/ingest-email", handler.IngestEmail)
	r.Get("/stats", handler.GetStats)
	r.Get("/health", handler.Health)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "Endpoint not found")
	})

	mountDashboard(r)

	return r
}

// Run serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// mountDashboard serves the embedded static dashboard at the root.
func mountDashboard(r chi.Router) {
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		return
	}
	fileServer := http.FileServer(http.FS(assets))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		req.URL.Path = "/"
		fileServer.ServeHTTP(w, req)
	})
	r.Get("/app.js", fileServer.ServeHTTP)
	r.Get("/style.css", fileServer.ServeHTTP)
}

// requestLogger logs one line per request with method, path, status,
// and duration.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
