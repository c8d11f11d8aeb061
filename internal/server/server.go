// Package server exposes the catalogue, live preview, exports and drafts over
// HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-legaldocs/pkg/drafts"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
)

const shutdownTimeout = 10 * time.Second

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDraftStore backs the /api/drafts routes. Defaults to memory.
func WithDraftStore(store drafts.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.drafts = store
		}
	}
}

// WithLanguage sets the language used when a request names none.
func WithLanguage(lang model.Language) Option {
	return func(s *Server) {
		if lang.Valid() {
			s.lang = lang
		}
	}
}

// WithCheckOrigin overrides the websocket origin check.
func WithCheckOrigin(check func(*http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = check
	}
}

// Server routes HTTP requests to an orchestrator.
type Server struct {
	orch     *orchestrator.Orchestrator
	drafts   drafts.Store
	logger   *slog.Logger
	lang     model.Language
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

// New builds the router. The orchestrator is required.
func New(orch *orchestrator.Orchestrator, options ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	s := &Server{
		orch:   orch,
		drafts: drafts.NewMemoryStore(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		lang:   model.English,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the gin engine as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.logger))

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	{
		api.GET("/types", s.listTypes)
		api.GET("/types/:type", s.getType)
		api.GET("/types/:type/schema", s.getSchema)
		api.POST("/types/:type/preview", s.preview)
		api.POST("/types/:type/export/:format", s.export)

		api.GET("/drafts/:type", s.getDraft)
		api.PUT("/drafts/:type", s.putDraft)
		api.DELETE("/drafts/:type", s.deleteDraft)
	}

	r.GET("/ws/preview/:type", s.previewSocket)
	return r
}
