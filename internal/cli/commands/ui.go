package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/sqllens/internal/ui"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/internal/workspace"
	"github.com/spf13/cobra"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Host      string
	NoBrowser bool
	Dev       bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the SQL Lens browser UI",
		Long: `Start a local web server with the interactive comparison workspace.

The UI provides:
- Two SQL editors with live syntax colouring
- Word-level diff highlighting between them
- Syntax validation as you type
- Folding, formatting and a unified diff view
- AI analysis of the change`,
		Example: `  # Start UI on default port
  sqllens ui

  # Start on custom port
  sqllens ui --port 3000

  # Start without auto-opening browser
  sqllens ui --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().StringVar(&opts.Host, "host", "localhost", "Interface to listen on")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Reload pages and rebuild assets when sources change")
	cmd.Flags().Duration("debounce", 0, "Validation delay after typing stops (default: 600ms)")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg
	autoOpen := cfg.UI.AutoOpen && !opts.NoBrowser

	server := ui.NewServer(ui.Config{
		Host:          opts.Host,
		Port:          cfg.UI.Port,
		SessionSecret: cfg.UI.SessionSecret,
		Logger:        cc.Logger,
		Dev:           opts.Dev,
		Workspace: workspace.Options{
			Validator: validate.New(cc.Logger),
			Analyzer:  cc.Analyzer(),
			Dialect:   cfg.DialectTag(),
			Debounce:  cfg.Validation.Debounce,
		},
		Format:      cfg.FormatOptions(),
		IdleTimeout: cfg.UI.IdleTimeout,
		OnListen: func(url string) {
			cc.Renderer.Printf("SQL Lens running at %s\n", url)
			cc.Renderer.Muted("Press Ctrl+C to stop")
			if autoOpen {
				go openBrowser(url)
			}
		},
	})

	if err := server.ListenAndServe(cmd.Context()); err != nil {
		return fmt.Errorf("ui server: %w", err)
	}
	return nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
