package commands

import (
	"github.com/leapstack-labs/sqllens/internal/cli/tui"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/spf13/cobra"
)

// NewViewCommand creates the interactive terminal diff command.
func NewViewCommand() *cobra.Command {
	var unified bool

	cmd := &cobra.Command{
		Use:     "view <original> <modified>",
		Aliases: []string{"tui"},
		Short:   "Compare two SQL files in an interactive terminal view",
		Long: `Show both files side by side with changed words highlighted and
scrolling kept in step.

Keys: s swaps the sides, d toggles diff highlighting, u switches to a
unified view, y copies the modified file (Y the original) to the
clipboard, r reloads the files from disk and q quits.`,
		Example: `  sqllens view old.sql new.sql`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			a, b := args[0], args[1]
			return tui.Run(cmd.Context(), tui.Options{
				Dialect: cc.Cfg.DialectTag(),
				Load: func() (string, string, error) {
					return readPair(cmd, a, b)
				},
				Validator: validate.New(cc.Logger),
				Unified:   unified,
				Logger:    cc.Logger,
			})
		},
	}

	cmd.Flags().BoolVarP(&unified, "unified", "u", false, "Start in the unified view")
	return cmd
}
