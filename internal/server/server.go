// Package server exposes the transcript cleaner over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/logger"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/llm"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/transcript"
)

const (
	defaultMaxInput = 20 << 20
	shutdownTimeout = 10 * time.Second
)

// ProviderFactory builds an LLM provider for a request. An empty name means
// the server's configured provider.
type ProviderFactory func(name string, cfg llm.ProviderConfig) (llm.Provider, error)

// Config configures the server.
type Config struct {
	Addr         string
	MaxInputSize int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the cleaning API.
type Server struct {
	cleaner   *transcript.Cleaner
	config    Config
	providers ProviderFactory
	prompt    string
	router    chi.Router
	log       *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLLM enables the LLM endpoints.
func WithLLM(factory ProviderFactory, prompt string) Option {
	return func(s *Server) {
		s.providers = factory
		s.prompt = prompt
	}
}

// New builds a server around c.
func New(c *transcript.Cleaner, cfg Config, opts ...Option) *Server {
	if cfg.MaxInputSize <= 0 {
		cfg.MaxInputSize = defaultMaxInput
	}
	s := &Server{
		cleaner: c,
		config:  cfg,
		prompt:  llm.DefaultPrompt,
		log:     logger.Component("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/profiles", s.handleProfiles)
		r.Get("/processors", s.handleProcessors)
		r.Get("/rules", s.handleRules)
		r.Get("/formats", s.handleFormats)
		r.Post("/clean", s.handleClean)
		r.Post("/diff", s.handleDiff)
		r.Post("/download", s.handleDownload)

		r.Route("/llm", func(r chi.Router) {
			r.Get("/providers", s.handleProviders)
			r.Get("/prompt", s.handlePrompt)
			r.Post("/clean", s.handleLLMClean)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
