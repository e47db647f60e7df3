package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/fold"
	"github.com/leapstack-labs/sqllens/pkg/parser"
	"github.com/spf13/cobra"
)

// previewLen is the longest fold preview printed.
const previewLen = 40

// NewFoldCommand creates the fold command.
func NewFoldCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fold <file>",
		Short: "List the foldable regions of a SQL file",
		Long: `Show, for every line that starts a foldable region, the lines the fold
hides. Parenthesized subqueries and column lists fold to their contents.`,
		Example: `  sqllens fold query.sql
  sqllens fold query.sql -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			sql, err := readSQL(cmd, args[0])
			if err != nil {
				return err
			}
			out := output.FoldOutput{File: args[0], Folds: foldInfos(sql, cc.Cfg.DialectTag())}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(out)
			}
			if len(out.Folds) == 0 {
				r.Muted("No foldable regions")
				return nil
			}
			rows := make([]table.Row, 0, len(out.Folds))
			for _, f := range out.Folds {
				rows = append(rows, table.Row{f.Line, f.EndLine, f.Preview})
			}
			r.Table(table.Row{"Line", "Hides to", "Preview"}, rows)
			return nil
		},
	}
}

// foldInfos lists the folds of sql. Unparseable input still yields the
// folds of whatever the parser recovered.
func foldInfos(sql string, tag dialect.Tag) []output.FoldInfo {
	out := []output.FoldInfo{}
	if sql == "" {
		return out
	}
	tree, _ := parser.ParseAll(sql, dialect.Lookup(tag))
	lines := fold.Lines(sql)
	for _, lf := range fold.All(tree, sql) {
		out = append(out, output.FoldInfo{
			Line:    lf.Line,
			EndLine: lf.EndLine(lines),
			Range:   lf.Range,
			Preview: preview(sql[lf.Range.From:lf.Range.To]),
		})
	}
	return out
}

// preview collapses whitespace and shortens text for display.
func preview(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	if r := []rune(s); len(r) > previewLen {
		return string(r[:previewLen-1]) + "…"
	}
	return s
}
