// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/sqllens/internal/prefs"
	workspaceFeature "github.com/leapstack-labs/sqllens/internal/ui/features/workspace"
	"github.com/leapstack-labs/sqllens/internal/ui/notifier"
	"github.com/leapstack-labs/sqllens/internal/ui/registry"
	"github.com/leapstack-labs/sqllens/internal/ui/resources"
	"github.com/leapstack-labs/sqllens/pkg/format"
)

// Deps are the services the routes share.
type Deps struct {
	Registry *registry.Registry
	Sessions *prefs.SessionStore
	Format   format.Options
	Logger   *slog.Logger
	IsDev    bool
	// Reload is broadcast to make open pages reload. Only used in dev mode.
	Reload *notifier.Notifier
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev && deps.Reload != nil {
		setupReload(router, deps.Reload)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return workspaceFeature.SetupRoutes(router, deps.Registry, deps.Sessions, deps.Format, deps.Logger, deps.IsDev)
}

// setupReload makes every open page reload once when it reconnects after a
// server restart, and again on each broadcast.
func setupReload(router chi.Router, reload *notifier.Notifier) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		updates := reload.Subscribe()
		defer reload.Unsubscribe(updates)

		sse := datastar.NewSSE(w, r)
		doReload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(doReload)
		select {
		case <-updates:
			doReload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		reload.Broadcast()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
