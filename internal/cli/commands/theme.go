package commands

import (
	"fmt"

	"github.com/leapstack-labs/sqllens/internal/prefs"
	"github.com/spf13/cobra"
)

// NewThemeCommand creates the theme command.
func NewThemeCommand() *cobra.Command {
	var toggle bool

	cmd := &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Show or set the preferred colour theme",
		Long: `Show or store the preferred theme in the local preference database.

With no stored preference the terminal's background decides. The browser
UI keeps its own per-browser preference.`,
		Example: `  sqllens theme
  sqllens theme dark
  sqllens theme --toggle`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{prefs.Light.String(), prefs.Dark.String()},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			path, err := cc.Cfg.PrefsPath()
			if err != nil {
				return fmt.Errorf("failed to locate preferences: %w", err)
			}
			store, err := prefs.OpenSQLite(path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			current, err := prefs.LoadTheme(ctx, store, prefs.TerminalHint())
			if err != nil {
				cc.Logger.Warn("failed to read theme", "error", err)
			}

			next := current
			switch {
			case len(args) == 1:
				t, ok := prefs.ParseTheme(args[0])
				if !ok {
					return fmt.Errorf("invalid theme %q: want light or dark", args[0])
				}
				next = t
			case toggle:
				next = current.Toggle()
			default:
				cc.Renderer.KeyValue("Theme", current.String())
				return nil
			}

			if err := prefs.SaveTheme(ctx, store, next); err != nil {
				return err
			}
			cc.Renderer.Success("Theme set to " + next.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&toggle, "toggle", false, "Switch between light and dark")
	return cmd
}
