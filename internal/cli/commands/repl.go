package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/leapstack-labs/sqllens/internal/config"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/pkg/decorate"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/diff"
	"github.com/leapstack-labs/sqllens/pkg/format"
	"github.com/leapstack-labs/sqllens/pkg/highlight"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "sqllens> "
	replContPrompt = "    ...> "
)

var dotCommands = []string{".help", ".dialect", ".base", ".nobase", ".clear", ".quit", ".exit"}

// replState is what the REPL remembers between statements.
type replState struct {
	tag    dialect.Tag
	format format.Options
	base   string
	last   string
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Validate and format SQL interactively",
		Long: `Start an interactive shell. Each statement, ended with a semicolon, is
validated and echoed back formatted and coloured. Mark a statement with
.base to see every following statement as a diff against it.`,
		Example: `  sqllens repl --dialect mysql`,
		Args:    cobra.NoArgs,
		RunE:    runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	st := &replState{tag: cc.Cfg.DialectTag(), format: cc.Cfg.FormatOptions()}
	v := validate.New(cc.Logger)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(),
		AutoComplete:    &keywordCompleter{tag: func() dialect.Tag { return st.tag }},
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cc.Renderer
	r.Printf("SQL Lens REPL (%s)\n", dialect.Lookup(st.tag).DisplayName)
	r.Println("Type .help for commands, .quit to exit")
	r.Println()

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if buf.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if quit := handleDotCommand(r, st, trimmed); quit {
				break
			}
			continue
		}

		buf.WriteString(line)
		if !strings.HasSuffix(trimmed, ";") {
			buf.WriteString("\n")
			rl.SetPrompt(replContPrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		stmt := buf.String()
		buf.Reset()
		evalStatement(cmd, r, v, st, stmt)
		r.Println()
	}
	return nil
}

// evalStatement validates stmt and prints it formatted, or diffed against
// the base statement when one is set.
func evalStatement(cmd *cobra.Command, r *output.Renderer, v *validate.Validator, st *replState, stmt string) {
	stmt = strings.TrimSpace(stmt)
	if errs := v.Validate(cmd.Context(), stmt, st.tag); len(errs) > 0 {
		for _, e := range errs {
			r.Error(fmt.Sprintf("line %d, column %d: %s", e.StartLine, e.StartColumn, e.Message))
		}
		return
	}

	opts := st.format
	opts.Dialect = st.tag
	formatted := strings.TrimRight(format.FormatOrOriginal(stmt, opts), "\n")
	st.last = formatted

	if st.base == "" {
		r.SQL(decorate.Segments(highlight.Tokenize(formatted, st.tag), nil), false)
		return
	}
	spans := diff.Words(st.base, formatted)
	r.SQL(decorate.UnifiedSegments(decorate.Unified(spans, st.tag)), false)
	stats := diff.Count(spans)
	r.Muted(fmt.Sprintf("+%d -%d bytes against base", stats.Added, stats.Removed))
}

// handleDotCommand runs a dot-command and reports whether to quit.
func handleDotCommand(r *output.Renderer, st *replState, line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.Writer())

	case ".dialect":
		if len(parts) < 2 {
			r.Printf("Dialect: %s (one of %s)\n", st.tag, strings.Join(dialect.Names(), ", "))
			return false
		}
		tag, ok := dialect.ParseTag(parts[1])
		if !ok {
			r.Error(fmt.Sprintf("unknown dialect %q (one of %s)", parts[1], strings.Join(dialect.Names(), ", ")))
			return false
		}
		st.tag = tag
		r.Success("Dialect set to " + dialect.Lookup(tag).DisplayName)

	case ".base":
		if st.last == "" {
			r.Error("no statement yet; run one first")
			return false
		}
		st.base = st.last
		r.Success("Base set; following statements are shown as a diff")

	case ".nobase":
		st.base = ""
		r.Success("Base cleared")

	case ".clear":
		r.Printf("\033[H\033[2J")

	default:
		r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", parts[0]))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .dialect [name]  Show or change the SQL dialect
  .base            Diff following statements against the last one
  .nobase          Stop diffing
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completes keywords of the current dialect
`
	_, _ = fmt.Fprintln(w, help)
}

// historyFile returns the REPL history path, or "" to keep no history.
func historyFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, config.AppName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return ""
	}
	return filepath.Join(dir, "repl_history")
}

// keywordCompleter completes the word before the cursor with keywords of
// the current dialect, and dot-commands at the start of a line.
type keywordCompleter struct {
	tag func() dialect.Tag
}

// Do implements readline.AutoCompleter.
func (c *keywordCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && isCompletionRune(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])

	var candidates []string
	if start == 0 && strings.HasPrefix(prefix, ".") {
		candidates = dotCommands
	} else if prefix != "" {
		candidates = dialect.Lookup(c.tag()).Keywords()
	}

	lower := prefix != strings.ToUpper(prefix)
	var out [][]rune
	for _, cand := range candidates {
		if !strings.HasPrefix(cand, strings.ToUpper(prefix)) && !strings.HasPrefix(cand, prefix) {
			continue
		}
		if lower && !strings.HasPrefix(cand, ".") {
			cand = strings.ToLower(cand)
		}
		out = append(out, []rune(cand[len(prefix):]+" "))
	}
	return out, len([]rune(prefix))
}

func isCompletionRune(r rune) bool {
	return r == '_' || r == '.' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
