// Package server exposes a scene over HTTP: JSON state, a PNG view and
// endpoints that feed pointer events and edits into the engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/wcatz/widget-canvas/internal/config"
	"github.com/wcatz/widget-canvas/internal/editor"
	"github.com/wcatz/widget-canvas/internal/render"
)

// Config holds configuration for the scene server.
type Config struct {
	Config *config.Config
	Scene  *editor.Scene
	// EditMode is the initial edit-mode flag.
	EditMode bool
	// Logger is optional, uses discard if nil.
	Logger *slog.Logger
}

// Server owns one scene and its controller. All engine calls happen under
// mu, one request at a time.
type Server struct {
	mu       sync.Mutex
	cfg      *config.Config
	scene    *editor.Scene
	ctrl     *editor.Controller
	renderer *render.Renderer
	editMode bool

	logger *slog.Logger
	router chi.Router
}

// New creates a server for the given scene.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:      cfg.Config,
		scene:    cfg.Scene,
		ctrl:     editor.NewController(cfg.Scene, cfg.Config.Canvas.HandleSize, logger),
		renderer: render.NewRenderer(render.ThemeFromConfig(cfg.Config, logger), cfg.Config.Canvas.HandleSize),
		editMode: cfg.EditMode,
		logger:   logger,
	}

	r := chi.NewMux()
	r.Use(middleware.RequestID, middleware.Recoverer)
	s.registerRoutes(r)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ReloadConfig re-reads the config file and applies the theme. Canvas
// settings only apply to new scenes.
func (s *Server) ReloadConfig() error {
	path := s.Config().Path()
	if path == "" {
		return fmt.Errorf("server was started without a config file")
	}
	cfg, err := config.Load(path, nil)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.renderer.Theme = render.ThemeFromConfig(cfg, s.logger)
	s.logger.Info("config reloaded", "path", path, "palette", cfg.ActivePalette)
	return nil
}

// Config returns the current config.
func (s *Server) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Serve listens on the configured port and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.Config().Server.Port)
	s.logger.Info("starting scene server", "addr", fmt.Sprintf("http://localhost%s", addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: middleware.Logger(s),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down scene server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
