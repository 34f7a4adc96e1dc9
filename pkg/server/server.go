// Package server serves contribution river charts over HTTP.
//
// Each viewer gets its own [river.Session] so that highlighting in one
// browser tab never affects another. All sessions share one immutable chart.
//
// # Routes
//
//	GET    /                                 create a session, redirect to its chart
//	GET    /healthz                          liveness
//	GET    /metrics                          Prometheus metrics (when configured)
//	GET    /chart.{format}                   stateless render, cached by the pipeline
//	POST   /sessions                         create a session (?highlight=<author>)
//	GET    /sessions/{id}                    selection state and draw order
//	DELETE /sessions/{id}                    drop a session
//	GET    /sessions/{id}/chart.svg          the session's chart as interactive SVG
//	GET    /sessions/{id}/chart.json         the session's chart as JSON
//	POST   /sessions/{id}/select/{author}    highlight an author
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/impactriver/pkg/dataset"
	"github.com/matzehuels/impactriver/pkg/errors"
	"github.com/matzehuels/impactriver/pkg/observability"
	"github.com/matzehuels/impactriver/pkg/pipeline"
	"github.com/matzehuels/impactriver/pkg/render/river"
	"github.com/matzehuels/impactriver/pkg/render/river/selection"
	"github.com/matzehuels/impactriver/pkg/render/river/sink"
)

// Config configures a [Server].
type Config struct {
	// Dataset is the chart input. Required.
	Dataset *dataset.Dataset
	// Options are the chart and render options for every session.
	Options pipeline.Options
	// Runner renders the stateless /chart.{format} endpoint. Nil uses a
	// runner without cache.
	Runner *pipeline.Runner
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// MaxSessions bounds live sessions; see [NewRegistry].
	MaxSessions int
	Logger      *log.Logger
}

// Server is the chart viewer.
type Server struct {
	chart    *river.Chart
	hash     string
	dataset  *dataset.Dataset
	opts     pipeline.Options
	runner   *pipeline.Runner
	sessions *Registry
	metrics  http.Handler
	logger   *log.Logger
	router   chi.Router
}

// New builds the chart once and returns a server for it.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Dataset == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dataset is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	opts := cfg.Options
	opts.Logger = cfg.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	chart, err := cfg.Runner.Build(ctx, cfg.Dataset, opts)
	if err != nil {
		return nil, err
	}
	for _, w := range chart.Warnings {
		cfg.Logger.Warn("chart warning", "warning", w)
	}
	hash, err := cfg.Dataset.Hash()
	if err != nil {
		return nil, err
	}

	s := &Server{
		chart:    chart,
		hash:     hash,
		dataset:  cfg.Dataset,
		opts:     opts,
		runner:   cfg.Runner,
		sessions: NewRegistry(cfg.MaxSessions),
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(instrument(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Get("/chart.{format}", s.handleChart)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/chart.svg", s.handleSessionSVG)
			r.Get("/chart.json", s.handleSessionJSON)
			r.Post("/select/{author}", s.handleSelect)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the session registry.
func (s *Server) Sessions() *Registry { return s.sessions }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", addr, "authors", len(s.chart.Authors), "bands", len(s.chart.Bands))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

type sessionResponse struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Selection selection.State `json:"selection"`
	DrawOrder []string        `json:"draw_order"`
	Authors   []authorEntry   `json:"authors"`
}

type authorEntry struct {
	ID      string `json:"author_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	HasBand bool   `json:"has_band"`
}

type selectResponse struct {
	Directives []selection.Directive `json:"directives"`
	Selection  selection.State       `json:"selection"`
	DrawOrder  []string              `json:"draw_order"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.newSession(r.Context(), r.URL.Query().Get("highlight"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	http.Redirect(w, r, "/sessions/"+sess.ID+"/chart.svg", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	opts := s.opts
	opts.Formats = []string{format}
	opts.Highlight = r.URL.Query().Get("highlight")

	sess, err := s.runner.NewSession(r.Context(), s.chart, opts.Highlight)
	if err != nil {
		s.writeError(w, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), sess, s.hash, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.newSession(r.Context(), r.URL.Query().Get("highlight"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, s.sessionResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Delete(id) {
		s.writeError(w, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(pipeline.FormatSVG))
	_, _ = w.Write(sink.RenderSVG(sess, s.svgOptions()...))
}

func (s *Server) handleSessionJSON(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := sink.RenderJSON(sess)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(pipeline.FormatJSON))
	_, _ = w.Write(data)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	author := chi.URLParam(r, "author")
	directives, err := sess.Select(author)
	observability.Session().OnSelect(r.Context(), sess.ID, author, len(directives), err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if directives == nil {
		directives = []selection.Directive{}
	}
	state, order := sess.Snapshot()
	writeJSON(w, http.StatusOK, selectResponse{
		Directives: directives,
		Selection:  state,
		DrawOrder:  order,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) newSession(ctx context.Context, highlight string) (*river.Session, error) {
	sess, err := s.runner.NewSession(ctx, s.chart, highlight)
	if err != nil {
		return nil, err
	}
	if evicted := s.sessions.Put(sess); evicted != "" {
		s.logger.Debug("evicted session", "id", evicted)
	}
	return sess, nil
}

func (s *Server) sessionResponse(sess *river.Session) sessionResponse {
	state, order := sess.Snapshot()
	resp := sessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		Selection: state,
		DrawOrder: order,
		Authors:   make([]authorEntry, len(s.chart.Authors)),
	}
	for i, a := range s.chart.Authors {
		resp.Authors[i] = authorEntry{ID: a.ID, Name: a.Name, Color: a.Color, HasBand: a.HasBand}
	}
	return resp
}

func (s *Server) svgOptions() []sink.SVGOption {
	var opts []sink.SVGOption
	if s.opts.NoLegend {
		opts = append(opts, sink.WithoutLegend())
	}
	if s.opts.Title != "" {
		opts = append(opts, sink.WithTitle(s.opts.Title))
	}
	return opts
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidAuthor, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeSessionNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
