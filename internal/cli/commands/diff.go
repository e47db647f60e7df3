package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/pkg/decorate"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/diff"
	"github.com/spf13/cobra"
)

// Views accepted by --side.
const (
	sideBoth    = "both"
	sideUnified = "unified"
)

// watchSettle coalesces bursts of file events from editors that write in
// several steps.
const watchSettle = 100 * time.Millisecond

// DiffOptions holds options for the diff command.
type DiffOptions struct {
	Side      string
	StatsOnly bool
	Numbers   bool
	Watch     bool
}

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	opts := &DiffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <original> <modified>",
		Short: "Show a word-level diff of two SQL files",
		Long: `Compare two SQL documents word by word.

Removed words are marked on the original, added words on the modified
document. On a terminal both are syntax coloured; elsewhere changes are
wrapped in [-removed-] and {+added+} markers. Use - to read one side
from stdin.`,
		Example: `  # Side by side, one after the other
  sqllens diff old.sql new.sql

  # A single document with removals and additions inline
  sqllens diff old.sql new.sql --side unified

  # Only the changed byte counts, as JSON
  sqllens diff old.sql new.sql --stats -o json

  # Redraw whenever either file is saved
  sqllens diff old.sql new.sql --watch`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Side, "side", sideBoth, "View to print (both|original|modified|unified)")
	cmd.Flags().BoolVar(&opts.StatsOnly, "stats", false, "Print only change statistics")
	cmd.Flags().BoolVarP(&opts.Numbers, "line-numbers", "n", true, "Show line numbers")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when either file changes")

	_ = cmd.RegisterFlagCompletionFunc("side", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{sideBoth, "original", "modified", sideUnified}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runDiff(cmd *cobra.Command, a, b string, opts *DiffOptions) error {
	switch opts.Side {
	case sideBoth, sideUnified:
	default:
		if _, ok := diff.ParseSide(opts.Side); !ok {
			return fmt.Errorf("invalid --side %q: want both, original, modified or unified", opts.Side)
		}
	}

	cc := NewCommandContext(cmd)
	if err := printDiff(cmd, cc, a, b, opts); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}
	if a == "-" || b == "-" {
		return fmt.Errorf("--watch needs two files, not stdin")
	}
	return watchFiles(cmd.Context(), cc, []string{a, b}, func() {
		cc.Renderer.Println()
		cc.Renderer.Muted(fmt.Sprintf("--- %s ---", time.Now().Format(time.TimeOnly)))
		if err := printDiff(cmd, cc, a, b, opts); err != nil {
			cc.Renderer.Error(err.Error())
		}
	})
}

func printDiff(cmd *cobra.Command, cc *CommandContext, a, b string, opts *DiffOptions) error {
	original, modified, err := readPair(cmd, a, b)
	if err != nil {
		return err
	}
	tag := cc.Cfg.DialectTag()
	spans := diff.Words(original, modified)
	stats := diff.Count(spans)
	r := cc.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		out := output.DiffOutput{
			Dialect:  tag.String(),
			Original: a,
			Modified: b,
			Stats:    stats,
		}
		if !opts.StatsOnly {
			out.Spans = spans
			out.Errors = diffErrors(cmd.Context(), cc, tag, original, modified)
		}
		return r.JSON(out)
	}

	if !opts.StatsOnly {
		switch opts.Side {
		case sideUnified:
			r.Header(2, fmt.Sprintf("%s → %s", a, b))
			r.SQL(decorate.UnifiedSegments(decorate.Unified(spans, tag)), opts.Numbers)
		case sideBoth:
			for _, side := range []diff.Side{diff.Original, diff.Modified} {
				if err := printSide(r, []string{a, b}[side], []string{original, modified}[side], spans, side, tag, opts.Numbers); err != nil {
					return err
				}
				r.Println()
			}
		default:
			side, _ := diff.ParseSide(opts.Side)
			if err := printSide(r, []string{a, b}[side], []string{original, modified}[side], spans, side, tag, opts.Numbers); err != nil {
				return err
			}
		}
	}

	if !stats.Changed() {
		r.Success("No differences")
		return nil
	}
	r.KeyValue("Added", fmt.Sprintf("%d bytes", stats.Added))
	r.KeyValue("Removed", fmt.Sprintf("%d bytes", stats.Removed))
	r.KeyValue("Unchanged", fmt.Sprintf("%d bytes", stats.Unchanged))
	return nil
}

func printSide(r *output.Renderer, name, doc string, spans []diff.Span, side diff.Side, tag dialect.Tag, numbers bool) error {
	segs, err := decorate.Decorate(doc, spans, side, tag)
	if err != nil {
		return err
	}
	r.Header(2, fmt.Sprintf("%s (%s)", name, side))
	r.SQL(segs, numbers)
	return nil
}

// diffErrors validates both documents, keyed by side name.
func diffErrors(ctx context.Context, cc *CommandContext, tag dialect.Tag, original, modified string) map[string][]validate.ValidationError {
	v := validate.New(cc.Logger)
	out := map[string][]validate.ValidationError{}
	for side, doc := range []string{original, modified} {
		if errs := v.Validate(ctx, doc, tag); len(errs) > 0 {
			out[diff.Side(side).String()] = errs
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// watchFiles calls onChange after any of paths is written, until ctx ends.
// Directories are watched rather than files so editors that replace the
// file on save keep triggering events.
func watchFiles(ctx context.Context, cc *CommandContext, paths []string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	targets := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
		if err := w.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}
	cc.Renderer.Muted("Watching for changes. Press Ctrl+C to stop.")

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if targets[filepath.Clean(ev.Name)] && ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				settle = time.After(watchSettle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Warn("watch error", "error", err)
		case <-settle:
			settle = nil
			onChange()
		}
	}
}
