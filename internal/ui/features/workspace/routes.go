// Package workspace provides the comparison page: two editors, their diff,
// validation, formatting and analysis.
package workspace

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sqllens/internal/prefs"
	"github.com/leapstack-labs/sqllens/internal/ui/registry"
	"github.com/leapstack-labs/sqllens/pkg/format"
)

// SetupRoutes configures routes for the workspace feature.
func SetupRoutes(
	router chi.Router,
	reg *registry.Registry,
	sessions *prefs.SessionStore,
	formatOpts format.Options,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(reg, sessions, formatOpts, logger, isDev)

	router.Get("/", handlers.WorkspacePage)
	router.Get("/updates", handlers.WorkspaceUpdates)

	router.Route("/workspace", func(r chi.Router) {
		r.Post("/dialect", handlers.SetDialect)
		r.Post("/diff", handlers.SetShowDiff)
		r.Post("/clear", handlers.Clear)
		r.Post("/swap", handlers.Swap)
		r.Post("/analyze", handlers.Analyze)
		r.Post("/format/{side}", handlers.Format)
		r.Post("/{side}", handlers.SetDocument)
	})

	router.Post("/theme", handlers.ToggleTheme)
	router.Get("/api/folds/{side}", handlers.Folds)

	return nil
}
