package commands

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/spf13/cobra"
)

// ErrInvalidSQL is returned when validation finds syntax errors.
var ErrInvalidSQL = errors.New("syntax errors found")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate <file>...",
		Aliases: []string{"check"},
		Short:   "Check SQL files for syntax errors",
		Long: `Parse each file with the selected dialect and report syntax errors
with their line and column. The command fails when any file has errors.`,
		Example: `  # Check a file
  sqllens validate query.sql

  # Check several files as MySQL, as JSON
  sqllens validate --dialect mysql a.sql b.sql -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, paths []string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer
	tag := cc.Cfg.DialectTag()
	v := validate.New(cc.Logger)

	out := output.ValidateOutput{Dialect: tag.String()}
	for _, path := range paths {
		sql, err := readSQL(cmd, path)
		if err != nil {
			return err
		}
		errs := v.Validate(cmd.Context(), sql, tag)
		if errs == nil {
			errs = []validate.ValidationError{}
		}
		out.Files = append(out.Files, output.FileErrors{File: path, Errors: errs})
		out.Total += len(errs)
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(out); err != nil {
			return err
		}
	} else {
		printValidation(r, out)
	}

	if out.Total > 0 {
		return fmt.Errorf("%w: %d in %d file(s)", ErrInvalidSQL, out.Total, countFailing(out))
	}
	return nil
}

func printValidation(r *output.Renderer, out output.ValidateOutput) {
	var rows []table.Row
	for _, f := range out.Files {
		if len(f.Errors) == 0 {
			r.StatusLine(f.File, output.StatusOK, "")
			continue
		}
		r.StatusLine(f.File, output.StatusFail, fmt.Sprintf("(%d errors)", len(f.Errors)))
		for _, e := range f.Errors {
			rows = append(rows, table.Row{f.File, e.StartLine, e.StartColumn, e.Message})
		}
	}
	if len(rows) == 0 {
		r.Success("No syntax errors")
		return
	}
	r.Println()
	r.Table(table.Row{"File", "Line", "Column", "Message"}, rows)
}

func countFailing(out output.ValidateOutput) int {
	n := 0
	for _, f := range out.Files {
		if len(f.Errors) > 0 {
			n++
		}
	}
	return n
}
