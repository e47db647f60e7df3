package commands

import (
	"github.com/leapstack-labs/sqllens/internal/lsp"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for IDE integration.

The server communicates over stdin/stdout using JSON-RPC and provides
syntax diagnostics, keyword completion and hover, folding ranges and
document formatting. The dialect comes from the config, and clients may
change it with initializationOptions {"dialect": "..."} or the
sqllens.dialect setting.`,
		Example: `  # Start LSP server (usually called by an IDE)
  sqllens lsp

  # Treat documents as PostgreSQL
  sqllens lsp --dialect postgresql`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Options{
				Dialect:   cc.Cfg.DialectTag(),
				Debounce:  cc.Cfg.Validation.Debounce,
				Format:    cc.Cfg.FormatOptions(),
				Validator: validate.New(cc.Logger),
				Logger:    cc.Logger,
				Version:   version,
			})
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().Duration("debounce", 0, "Diagnostics delay after an edit (default: 600ms)")
	return cmd
}
