package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/leapstack-labs/sqllens/pkg/format"
	"github.com/spf13/cobra"
)

// ErrNotFormatted is returned by format --check when a file would change.
var ErrNotFormatted = errors.New("file is not formatted")

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// FormatOptions holds options for the format command.
type FormatOptions struct {
	Write       bool
	Copy        bool
	Check       bool
	KeywordCase string
}

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	opts := &FormatOptions{}

	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Pretty-print a SQL file",
		Long: `Reformat SQL with one clause per line and indented column lists.

The result is printed unless --write is given. Files that cannot be
formatted, for example because of unbalanced parentheses, are reported
and left untouched.`,
		Example: `  # Print the formatted query
  sqllens format query.sql

  # Rewrite the file in place with four-space indentation
  sqllens format query.sql --write --indent 4

  # Fail when the file is not already formatted
  sqllens format query.sql --check

  # Copy the formatted query to the clipboard
  cat query.sql | sqllens format - --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the result back to the file")
	cmd.Flags().BoolVar(&opts.Copy, "copy", false, "Copy the result to the clipboard")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit with an error if the file would change")
	cmd.Flags().Int("indent", 0, "Spaces per indentation level (default from config)")
	cmd.Flags().StringVar(&opts.KeywordCase, "keyword-case", "", "Keyword case (upper|lower|preserve)")

	_ = cmd.RegisterFlagCompletionFunc("keyword-case", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"upper", "lower", "preserve"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runFormat(cmd *cobra.Command, path string, opts *FormatOptions) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	if opts.Write && path == "-" {
		return fmt.Errorf("--write needs a file, not stdin")
	}

	fopts := cc.Cfg.FormatOptions()
	if opts.KeywordCase != "" {
		kc, ok := format.ParseKeywordCase(opts.KeywordCase)
		if !ok {
			return fmt.Errorf("invalid --keyword-case %q: want upper, lower or preserve", opts.KeywordCase)
		}
		fopts.KeywordCase = kc
	}

	sql, err := readSQL(cmd, path)
	if err != nil {
		return err
	}
	formatted, err := format.Format(sql, fopts)
	if err != nil {
		return fmt.Errorf("cannot format %s: %w", path, err)
	}
	changed := formatted != sql
	cc.Logger.Debug("formatted", "file", path, "changed", changed)

	if opts.Check && changed {
		r.StatusLine(path, output.StatusFail, "would be reformatted")
		return ErrNotFormatted
	}

	written := false
	if opts.Write && changed {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = true
	}
	copied := false
	if opts.Copy {
		if err := writeClipboard(formatted); err != nil {
			cc.Logger.Debug("clipboard copy failed", "error", err)
		} else {
			copied = true
		}
	}

	switch {
	case r.EffectiveMode() == output.ModeJSON:
		return r.JSON(output.FormatOutput{File: path, Formatted: formatted, Changed: changed, Written: written})
	case opts.Check:
		r.StatusLine(path, output.StatusOK, "already formatted")
	case opts.Write:
		if written {
			r.StatusLine(path, output.StatusOK, "reformatted")
		} else {
			r.StatusLine(path, output.StatusOK, "unchanged")
		}
	case r.EffectiveMode() == output.ModeMarkdown:
		r.Println(output.FormatCodeBlock("sql", formatted))
	default:
		r.Printf("%s", formatted)
	}
	if copied && r.EffectiveMode() != output.ModeJSON {
		_, _ = fmt.Fprintln(r.ErrWriter(), "Copied to clipboard.")
	}
	return nil
}
