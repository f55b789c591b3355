package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/thinkscotty/promptify/internal/ai"
	"github.com/thinkscotty/promptify/internal/config"
	"github.com/thinkscotty/promptify/internal/database"
)

type Server struct {
	cfg     config.Config
	db      *database.DB
	gateway *ai.Gateway
	version string
	router  chi.Router
	httpSrv *http.Server
}

func New(cfg config.Config, db *database.DB, gateway *ai.Gateway, version string) *Server {
	s := &Server{
		cfg:     cfg,
		db:      db,
		gateway: gateway,
		version: version,
	}
	s.router = s.routes()
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and blocks until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	slog.Info("Starting server", "addr", addr)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAccessKey)

		r.Post("/messages", s.handleMessage)
		r.Post("/query", s.handleQuery)
		r.Post("/test", s.handleTest)
		r.Get("/models", s.handleModels)

		r.Get("/settings", s.handleSettingsGet)
		r.Put("/settings", s.handleSettingsUpdate)

		r.Get("/logs", s.handleLogs)
		r.Get("/stats", s.handleStats)
	})

	return r
}
