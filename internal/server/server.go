// Package server hosts the builder over HTTP. Pages are rendered server-side;
// the embedded browser script reports drag events and dialog answers to the
// JSON endpoints and re-fetches the preview fragment afterwards.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/internal/metrics"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/drag"
	"github.com/goliatone/go-formbuilder/pkg/export"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/placement"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/themes"
)

const sweepInterval = time.Minute

// Option configures the Server.
type Option func(*Server)

// WithCatalog sets the palette source shared by every mounted builder.
func WithCatalog(source catalog.Source) Option {
	return func(s *Server) {
		if source != nil {
			s.catalog = source
		}
	}
}

// WithRegistry replaces the default renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithThemeSelector resolves a theme per request. The theme and variant
// query parameters override the defaults given here.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) Option {
	return func(s *Server) {
		s.themes = selector
		s.defaultTheme = defaultTheme
		s.defaultVariant = defaultVariant
	}
}

// WithThemeDir serves theme assets from dir under /themes/ and lets the
// vanilla renderer resolve theme partials from it.
func WithThemeDir(dir string) Option {
	return func(s *Server) {
		s.themeDir = strings.TrimSpace(dir)
	}
}

// WithAssetsPrefix sets the URL path embedded assets are served from.
func WithAssetsPrefix(prefix string) Option {
	return func(s *Server) {
		prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
		if prefix != "/" {
			s.assetsPrefix = prefix
		}
	}
}

// WithTitle sets the heading of every mounted builder.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithMetrics records placements, gestures and requests.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionTTL bounds how long an idle builder stays mounted.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server owns the mounted builders and the HTTP routes.
type Server struct {
	catalog        catalog.Source
	registry       *render.Registry
	themes         theme.ThemeSelector
	defaultTheme   string
	defaultVariant string
	themeDir       string
	assetsPrefix   string
	title          string
	metrics        *metrics.Metrics
	logger         *zap.Logger
	sessionTTL     time.Duration
	now            func() time.Time

	sessions *sessionStore
}

// New builds a Server. Without WithRegistry the vanilla and tui renderers are
// registered behind the sanitizer, vanilla being the default.
func New(options ...Option) (*Server, error) {
	s := &Server{
		catalog:      catalog.Default(),
		assetsPrefix: "/assets",
		logger:       zap.NewNop(),
		sessionTTL:   30 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.registry == nil {
		registry, err := formbuilder.NewRegistry(vanilla.WithTemplateOverlayDir(s.themeDir))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.registry = registry
	}

	s.sessions = newSessionStore(s.sessionTTL, s.now, s.mount, s.logger)
	return s, nil
}

func (s *Server) mount() *builder.Builder {
	opts := []builder.Option{
		builder.WithCatalog(s.catalog),
		builder.WithTitle(s.title),
		builder.WithLogger(s.logger),
	}
	if s.metrics != nil {
		opts = append(opts, s.metrics.BuilderOptions()...)
	}
	return builder.New(opts...)
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.handle(mux, "GET /{$}", s.handlePage)
	s.handle(mux, "GET /preview", s.handlePreview)
	s.handle(mux, "GET /api/state", s.handleState)
	s.handle(mux, "POST /api/drag/start", s.handleDragStart)
	s.handle(mux, "POST /api/drag/hover", s.handleDragHover)
	s.handle(mux, "POST /api/drag/drop", s.handleDragDrop)
	s.handle(mux, "POST /api/placement", s.handlePlacement)
	s.handle(mux, "GET /export/openapi.json", s.handleExportOpenAPI)
	s.handle(mux, "GET /export/draft.json", s.handleExportJSON)
	s.handle(mux, "GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assets := http.StripPrefix(s.assetsPrefix+"/", http.FileServerFS(vanilla.AssetsFS()))
	s.handle(mux, "GET "+s.assetsPrefix+"/", assets.ServeHTTP)
	if s.themeDir != "" {
		files := http.StripPrefix("/themes/", http.FileServerFS(os.DirFS(s.themeDir)))
		s.handle(mux, "GET /themes/", files.ServeHTTP)
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}

// Run unmounts idle builders until ctx is cancelled, then unmounts the rest.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.sessions.closeAll()
			return nil
		case <-ticker.C:
			if n := s.sessions.sweep(); n > 0 {
				s.logger.Debug("idle builders unmounted", zap.Int("count", n))
			}
		}
	}
}

func (s *Server) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	route := pattern
	if _, path, ok := strings.Cut(pattern, " "); ok {
		route = path
	}
	mux.Handle(pattern, s.instrument(route, fn))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, render.FragmentPage)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, render.FragmentPreview)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, fragment render.Fragment) {
	e := s.sessions.acquire(w, r)
	form := e.builder.Model()
	e.mu.Unlock()

	cfg, err := s.resolveTheme(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, contentType, err := s.registry.Render(r.Context(), r.URL.Query().Get("renderer"), form, render.RenderOptions{
		Fragment:     fragment,
		Theme:        cfg,
		AssetsPrefix: s.assetsPrefix,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrRendererNotFound) {
			status = http.StatusNotFound
		}
		s.logger.Warn("render failed", zap.String("fragment", string(fragment)), zap.Error(err))
		writeError(w, status, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(out)
}

func (s *Server) resolveTheme(r *http.Request) (*theme.RendererConfig, error) {
	if s.themes == nil {
		return nil, nil
	}
	name := r.URL.Query().Get("theme")
	if name == "" {
		name = s.defaultTheme
	}
	variant := r.URL.Query().Get("variant")
	if variant == "" {
		variant = s.defaultVariant
	}
	return themes.Resolve(s.themes, name, variant, vanilla.DefaultPartials())
}

// StateResponse is returned by every JSON endpoint.
type StateResponse struct {
	Step    placement.Step    `json:"step"`
	Pending *placement.Prompt `json:"pending,omitempty"`
	Form    model.FormModel   `json:"form"`
}

func stateOf(b *builder.Builder) StateResponse {
	form := b.Model()
	return StateResponse{
		Step:    b.Session().Step(),
		Pending: form.Pending,
		Form:    form,
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()
	writeJSON(w, http.StatusOK, stateOf(e.builder))
}

type dragStartRequest struct {
	Kind string `json:"kind"`
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req dragStartRequest
	if !decode(w, r, &req) {
		return
	}
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	if err := e.builder.StartDrag(catalog.FieldKind(strings.TrimSpace(req.Kind))); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(e.builder))
}

type dragHoverRequest struct {
	Over bool `json:"over"`
}

func (s *Server) handleDragHover(w http.ResponseWriter, r *http.Request) {
	var req dragHoverRequest
	if !decode(w, r, &req) {
		return
	}
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	if err := e.builder.Hover(req.Over); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(e.builder))
}

type dragDropRequest struct {
	OnTarget bool `json:"onTarget"`
	// Payload identifies the dragged entry when the drop did not follow a
	// tracked drag start, e.g. a drag from another window.
	Payload string `json:"payload,omitempty"`
}

func (s *Server) handleDragDrop(w http.ResponseWriter, r *http.Request) {
	var req dragDropRequest
	if !decode(w, r, &req) {
		return
	}
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	var err error
	switch {
	case !req.OnTarget:
		err = e.builder.DropElsewhere()
	case e.builder.Model().Dragging:
		_, err = e.builder.Drop()
	case strings.TrimSpace(req.Payload) != "":
		_, err = e.builder.DropPayload(req.Payload)
	default:
		err = drag.ErrNotDragging
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(e.builder))
}

func (s *Server) handlePlacement(w http.ResponseWriter, r *http.Request) {
	var req builder.Response
	if !decode(w, r, &req) {
		return
	}
	e := s.sessions.acquire(w, r)
	defer e.mu.Unlock()

	if _, err := e.builder.Respond(req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(e.builder))
}

func (s *Server) handleExportOpenAPI(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.acquire(w, r)
	fields := e.builder.Draft().Fields()
	title := e.builder.Model().Title
	e.mu.Unlock()

	raw, err := export.OpenAPIJSON(r.Context(), fields, export.WithTitle(title))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	e := s.sessions.acquire(w, r)
	fields := e.builder.Draft().Fields()
	title := e.builder.Model().Title
	e.mu.Unlock()

	raw, err := export.JSON(title, fields)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, drag.ErrUnacceptedPayload), errors.Is(err, catalog.ErrUnknownKind):
		return http.StatusUnprocessableEntity
	case errors.Is(err, builder.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, placement.ErrPlacementActive),
		errors.Is(err, placement.ErrInvalidTransition),
		errors.Is(err, drag.ErrNotDragging),
		errors.Is(err, drag.ErrAlreadyDragging):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
