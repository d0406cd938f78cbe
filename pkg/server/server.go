// Package server serves the booking form over HTTP. Every page load mounts a
// fresh controller held in the session store; the page posts back without
// JavaScript and the live channel streams re-rendered fragments when it is
// available.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookingform "github.com/goliatone/go-bookingform"
	"github.com/goliatone/go-bookingform/pkg/config"
	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/metrics"
	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/openapi"
	"github.com/goliatone/go-bookingform/pkg/render"
	"github.com/goliatone/go-bookingform/pkg/renderers/vanilla"
	"github.com/goliatone/go-bookingform/pkg/runtime"
	"github.com/goliatone/go-bookingform/pkg/styling"
)

// Route paths.
const (
	PathForm    = "/"
	PathLive    = "/live"
	PathOpenAPI = "/openapi.json"
	PathRuntime = "/runtime"
	PathHealth  = "/healthz"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSubmitHandler replaces the default logging submit handler for every
// mounted controller.
func WithSubmitHandler(fn form.SubmitFunc) Option {
	return func(s *Server) {
		if fn != nil {
			s.handler = fn
		}
	}
}

// WithMetrics uses existing collectors and serves gatherer on the metrics
// path instead of creating a private registry.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithClock sets the instant the registry placeholder, default values and
// date bound are computed from.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCatalog supplies additional theme manifests.
func WithCatalog(catalog *styling.Catalog) Option {
	return func(s *Server) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithVersion sets the version reported by the OpenAPI document and health
// endpoint.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// Server wires the booking form to HTTP.
type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	now     func() time.Time
	version string

	booking  bookingform.Form
	registry model.FormModel

	catalog *styling.Catalog
	theme   *theme.RendererConfig
	html    *vanilla.Renderer

	sessions *SessionStore
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	handler  form.SubmitFunc
	openapi  []byte

	upgrader websocket.Upgrader
	router   chi.Router
}

// New builds the server. The registry, schema and default values are computed
// once here and shared by every session.
func New(cfg config.Config, options ...Option) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		logger:  slog.Default(),
		now:     time.Now,
		version: "dev",
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = s.logger.With("component", "server")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	booking, err := bookingform.FormFromConfig(cfg.Form, s.now(), bookingform.WithAction(PathForm))
	if err != nil {
		return nil, err
	}
	s.booking = booking
	s.registry = booking.Registry

	if s.catalog == nil {
		s.catalog = styling.NewCatalog()
	}
	s.theme, err = s.catalog.Resolve(cfg.Theme.Name, cfg.Theme.Variant, cfg.Theme.Tokens)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	lang, _ := cfg.Form.Language()
	s.html, err = vanilla.New(
		vanilla.WithDefaultStyles(),
		vanilla.WithTitle(cfg.Form.Title),
		vanilla.WithLang(lang.String()),
	)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	if cfg.Metrics.Enabled && s.metrics == nil {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		s.metrics = metrics.New(metrics.WithRegistry(registry), metrics.WithNamespace(cfg.Metrics.Namespace))
		s.gatherer = registry
	}

	if s.handler == nil {
		s.handler = form.LogSubmission(s.logger)
	}

	s.sessions = NewSessionStore(cfg.Server.SessionTTL, cfg.Server.MaxSessions, SessionHooks{
		OnCreate: func(*Session) { s.metrics.SessionOpened() },
		OnClose:  func(*Session) { s.metrics.SessionClosed() },
	}, s.logger)

	doc, err := openapi.Build(booking.Registry, booking.Schema, openapi.Options{Title: cfg.Form.Title, Version: s.version})
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if s.openapi, err = openapi.Marshal(doc, openapi.FormatJSON); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Form returns the shared registry.
func (s *Server) Form() model.FormModel {
	return s.registry
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get(PathForm, s.handleForm)
	r.Post(PathForm, s.handleSubmit)
	r.Get(PathLive, s.handleLive)
	r.Get(PathOpenAPI, s.handleOpenAPI)
	r.Get(PathHealth, s.handleHealth)
	r.Handle(PathRuntime+"/*", http.StripPrefix(PathRuntime+"/", http.FileServerFS(runtime.AssetsFS())))

	if s.cfg.Metrics.Enabled && s.gatherer != nil {
		r.Handle(s.cfg.Metrics.Path, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// mount creates a controller with the shared registry, schema and defaults.
// A non-nil initial replaces the defaults.
func (s *Server) mount(initial model.RawValues) *form.Controller {
	options := []form.Option{
		form.WithSubmitHandler(s.handler),
		form.WithLogger(s.logger),
		form.WithInitialRaw(initial),
	}
	if s.metrics != nil {
		options = append(options, form.WithObserver(s.metrics))
	}
	return s.booking.Mount(options...)
}

func (s *Server) renderOptions(sessionID string, fragment bool) render.RenderOptions {
	return render.RenderOptions{
		Theme:     s.theme,
		Hidden:    render.MergeHiddenFields(nil, render.SessionField(sessionID)),
		Header:    s.cfg.Form.Header,
		Fragment:  fragment,
		LiveURL:   PathLive,
		ScriptURL: PathRuntime + "/" + runtime.LiveScriptName,
	}
}

func (s *Server) render(ctx context.Context, session *Session, fragment bool) ([]byte, error) {
	start := time.Now()
	view := render.BuildView(s.registry, session.Controller.State())
	out, err := s.html.Render(ctx, view, s.renderOptions(session.ID, fragment))
	mode := "page"
	if fragment {
		mode = "fragment"
	}
	s.metrics.ObserveRender(mode, time.Since(start))
	return out, err
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
