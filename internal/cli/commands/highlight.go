package commands

import (
	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/leapstack-labs/sqllens/pkg/decorate"
	"github.com/leapstack-labs/sqllens/pkg/highlight"
	"github.com/spf13/cobra"
)

// NewHighlightCommand creates the highlight command.
func NewHighlightCommand() *cobra.Command {
	var numbers bool

	cmd := &cobra.Command{
		Use:     "highlight <file>",
		Aliases: []string{"cat"},
		Short:   "Print a SQL file with syntax colouring",
		Example: `  # Colour a file using PostgreSQL keywords
  sqllens highlight query.sql --dialect postgresql

  # Token classes as JSON
  sqllens highlight query.sql -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			sql, err := readSQL(cmd, args[0])
			if err != nil {
				return err
			}
			tag := cc.Cfg.DialectTag()
			segs := decorate.Segments(highlight.Tokenize(sql, tag), nil)

			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				if segs == nil {
					segs = []decorate.Segment{}
				}
				return cc.Renderer.JSON(output.HighlightOutput{File: args[0], Dialect: tag.String(), Segments: segs})
			}
			cc.Renderer.SQL(segs, numbers)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&numbers, "line-numbers", "n", false, "Show line numbers")
	return cmd
}
