package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudcmds/minicc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
)

// Server handles compile requests and, when a store is configured,
// persisted run lookups.
type Server struct {
	logger          zerolog.Logger
	store           *RunStore
	maxInstructions int64
	timeout         time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerMaxInstructions bounds each compile request's execution.
// Zero means unlimited.
func WithServerMaxInstructions(limit int64) ServerOption {
	return func(s *Server) {
		s.maxInstructions = limit
	}
}

// WithServerTimeout bounds each compile request's wall-clock time.
// Zero means no timeout.
func WithServerTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.timeout = timeout
	}
}

// NewServer creates a Server. A nil store disables persistence: persist
// requests are rejected and the runs endpoints report the feature as
// unavailable.
func NewServer(logger zerolog.Logger, store *RunStore, opts ...ServerOption) *Server {
	s := &Server{logger: logger, store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the HTTP routing table.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Post("/compile", s.handleCompile)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
	return r
}

type compileRequest struct {
	Source  string `json:"source"`
	Persist bool   `json:"persist"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Source == "" {
		s.writeError(w, http.StatusBadRequest, "source is required")
		return
	}
	if req.Persist && s.store == nil {
		s.writeError(w, http.StatusBadRequest, "persistence is not configured")
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	opts := []minicc.Option{minicc.WithLogger(s.logger)}
	if s.maxInstructions > 0 {
		opts = append(opts, minicc.WithMaxInstructions(s.maxInstructions))
	}

	// Stage failures are part of the result payload, not HTTP errors.
	result, err := minicc.Compile(ctx, req.Source, opts...)
	if result == nil {
		s.logger.Error().Err(err).Msg("compile rejected")
		s.writeError(w, http.StatusInternalServerError, "compilation failed")
		return
	}

	if req.Persist {
		if err := s.store.Save(r.Context(), req.Source, result); err != nil {
			s.logger.Error().Err(err).Str("id", result.ID).Msg("failed to persist run")
			s.writeError(w, http.StatusInternalServerError, "failed to persist run")
			return
		}
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			s.writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}
	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list runs")
		s.writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	run, err := s.store.Get(r.Context(), id.String())
	if errors.Is(err, ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("id", id.String()).Msg("failed to fetch run")
		s.writeError(w, http.StatusInternalServerError, "failed to fetch run")
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
