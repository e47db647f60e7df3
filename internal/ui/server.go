// Package ui provides the browser UI for comparing SQL.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqllens/internal/prefs"
	"github.com/leapstack-labs/sqllens/internal/ui/notifier"
	"github.com/leapstack-labs/sqllens/internal/ui/registry"
	"github.com/leapstack-labs/sqllens/internal/ui/resources"
	"github.com/leapstack-labs/sqllens/internal/ui/router"
	"github.com/leapstack-labs/sqllens/internal/workspace"
	"github.com/leapstack-labs/sqllens/pkg/format"
)

// Server is the main UI server.
type Server struct {
	cfg      Config
	logger   *slog.Logger
	sessions *prefs.SessionStore
	registry *registry.Registry
	reload   *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Host string
	Port int
	// SessionSecret signs cookies. Empty means a random secret, so sessions
	// end when the server stops.
	SessionSecret string
	Logger        *slog.Logger
	// Dev enables page reload and rebuilds assets when their sources change.
	Dev bool
	// Workspace is the template for each browser's workspace. Notify is set
	// by the server.
	Workspace workspace.Options
	Format    format.Options
	// IdleTimeout drops workspaces with no open page for this long.
	IdleTimeout time.Duration
	// OnListen is called with the base URL once the listener is open.
	OnListen func(url string)
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}

	wsOpts := cfg.Workspace
	if wsOpts.Logger == nil {
		wsOpts.Logger = logger
	}
	reg := registry.New(func(notify func()) *workspace.Controller {
		o := wsOpts
		o.Notify = notify
		return workspace.New(o)
	}, cfg.IdleTimeout, logger)

	return &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: prefs.NewSessionStore([]byte(secret)),
		registry: reg,
		reload:   notifier.New(),
	}
}

// Handler builds the router with middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	if s.cfg.Dev {
		r.Use(middleware.Logger)
	}

	if err := router.SetupRoutes(r, router.Deps{
		Registry: s.registry,
		Sessions: s.sessions,
		Format:   s.cfg.Format,
		Logger:   s.logger,
		IsDev:    s.cfg.Dev,
		Reload:   s.reload,
	}); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Registry returns the workspaces held by the server.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. Workspaces are evicted in the
// background and all closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	url := baseURL(ln.Addr())
	s.logger.Info("starting UI server", "addr", url)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		return s.registry.Run(egctx)
	})

	if s.cfg.Dev {
		eg.Go(func() error {
			return s.watchAssets(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	if s.cfg.OnListen != nil {
		s.cfg.OnListen(url)
	}
	return eg.Wait()
}

// watchAssets rebuilds the bundle when its sources change and reloads open
// pages. Without a source checkout there is nothing to watch.
func (s *Server) watchAssets(ctx context.Context) error {
	dir, err := resources.Dir()
	if err == nil {
		_, err = os.Stat(dir)
	}
	if err != nil {
		s.logger.Debug("asset sources not found, not watching", "error", err)
		return nil
	}
	if err := resources.Watch(ctx, dir, s.logger, s.reload.Broadcast); err != nil {
		s.logger.Error("asset watcher stopped", "error", err)
	}
	return nil
}

func baseURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
