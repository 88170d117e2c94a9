// Package server exposes chat sessions over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/ask-my-resume/internal/chat"
	"github.com/spigell/ask-my-resume/internal/session"
)

const (
	DefaultAddress = ":8080"
	maxBodyBytes   = 16 << 10
)

type Config struct {
	Address string `mapstructure:"address"`
}

type Server struct {
	httpServer *http.Server
	store      *session.Store
	logger     *zap.Logger
}

func New(cfg Config, store *session.Store, logger *zap.Logger) *Server {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{store: store, logger: logger}

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed API with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /sessions/{id}/messages", s.handleMessage)
	mux.HandleFunc("POST /sessions/{id}/reset", s.handleReset)
	mux.HandleFunc("GET /sessions/{id}/transcript", s.handleTranscript)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleEndSession)

	return s.withLogging(mux)
}

// ListenAndServe blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server starting", zap.String("address", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encoding json response", zap.Error(err))
	}
}

type errorBody struct {
	Error string     `json:"error"`
	ID    string     `json:"id,omitempty"`
	View  *chat.View `json:"view,omitempty"`
}

func (s *Server) errorResponse(w http.ResponseWriter, err error, body errorBody) {
	body.Error = publicMessage(err)
	s.jsonResponse(w, HTTPStatus(err), body)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json body: %v", errBadRequest, err)
	}
	return nil
}
