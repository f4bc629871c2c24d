// Package web serves the question form and a JSON API over the assistant.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rotisserie/eris"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"finrag/internal/assistant"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 5 * time.Second

type Options struct {
	CORSOrigins []string
	// MCP, when set, is mounted at /mcp.
	MCP http.Handler
}

type Server struct {
	router *mux.Router
	svc    *assistant.Services
	tmpl   *template.Template
	opts   Options
	log    *zap.Logger
}

func NewServer(svc *assistant.Services, opts Options, log *zap.Logger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		svc:    svc,
		tmpl:   template.Must(template.ParseFS(templateFS, "templates/*.html")),
		opts:   opts,
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/ask", s.askFormHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/simulate", s.simulateFormHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)

	// Registered on the root router so a method mismatch answers 405.
	s.router.HandleFunc("/api/personas", s.personasHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/ask", s.askHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/simulate", s.simulateHandler).Methods(http.MethodPost)

	if s.opts.MCP != nil {
		s.router.PathPrefix("/mcp").Handler(s.opts.MCP)
	}
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.router)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return eris.Wrap(err, "http server failed")
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "http server shutdown")
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers such as the MCP SSE endpoint working.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
