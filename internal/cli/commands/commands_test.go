package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqllens/internal/analysis"
	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/leapstack-labs/sqllens/internal/cli/testutil"
	"github.com/leapstack-labs/sqllens/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with cfg in its context, as the root command would.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(config.WithConfig(context.Background(), cfg))
	return out.String(), errOut.String(), err
}

func jsonConfig() *config.Config {
	cfg := config.Default()
	cfg.Output = config.OutputJSON
	return cfg
}

func sqlFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := testutil.WriteSQLFiles(t, map[string]string{
		"old.sql": testutil.OriginalSQL,
		"new.sql": testutil.ModifiedSQL,
	})
	return filepath.Join(dir, "old.sql"), filepath.Join(dir, "new.sql")
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewDiffCommand(), "diff <original> <modified>", []string{"side", "stats", "line-numbers", "watch"}},
		{NewViewCommand(), "view <original> <modified>", []string{"unified"}},
		{NewHighlightCommand(), "highlight <file>", []string{"line-numbers"}},
		{NewValidateCommand(), "validate <file>...", nil},
		{NewFormatCommand(), "format <file>", []string{"write", "copy", "check", "indent", "keyword-case"}},
		{NewFoldCommand(), "fold <file>", nil},
		{NewAnalyzeCommand(), "analyze <original> <modified>", []string{"model", "base-url"}},
		{NewREPLCommand(), "repl", nil},
		{NewLSPCommand("test"), "lsp", []string{"debounce"}},
		{NewUICommand(), "ui", []string{"port", "host", "no-browser", "dev", "debounce"}},
		{NewThemeCommand(), "theme [light|dark]", []string{"toggle"}},
		{NewInitCommand(), "init [directory]", []string{"force"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, NewVersionCommand("1.2.3"), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "SQL Lens v1.2.3")
}

func TestDiffCommand(t *testing.T) {
	a, b := sqlFiles(t)

	t.Run("both sides", func(t *testing.T) {
		out, _, err := execute(t, NewDiffCommand(), nil, a, b)
		require.NoError(t, err)
		testutil.AssertNoANSI(t, out)
		assert.Contains(t, out, "(original)")
		assert.Contains(t, out, "(modified)")
		assert.Contains(t, out, "[-name-]")
		assert.Contains(t, out, "{+email+}")
		assert.Contains(t, out, "1 | SELECT id, [-name-]")
		assert.Contains(t, out, "Added:")
	})

	t.Run("unified without numbers", func(t *testing.T) {
		out, _, err := execute(t, NewDiffCommand(), nil, a, b, "--side", "unified", "-n=false")
		require.NoError(t, err)
		assert.Contains(t, out, "SELECT id, ")
		assert.Contains(t, out, "[-name-]")
		assert.Contains(t, out, "{+email+}")
		assert.NotContains(t, out, "1 | ")
	})

	t.Run("single side", func(t *testing.T) {
		out, _, err := execute(t, NewDiffCommand(), nil, a, b, "--side", "modified")
		require.NoError(t, err)
		assert.NotContains(t, out, "[-name-]")
		assert.Contains(t, out, "{+email+}")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, NewDiffCommand(), jsonConfig(), a, b)
		require.NoError(t, err)
		var got output.DiffOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "standard", got.Dialect)
		assert.True(t, got.Stats.Changed())
		assert.NotEmpty(t, got.Spans)
		assert.Empty(t, got.Errors)
	})

	t.Run("identical", func(t *testing.T) {
		out, _, err := execute(t, NewDiffCommand(), nil, a, a, "--stats")
		require.NoError(t, err)
		assert.Contains(t, out, "No differences")
		assert.NotContains(t, out, "(original)")
	})

	t.Run("invalid side", func(t *testing.T) {
		_, _, err := execute(t, NewDiffCommand(), nil, a, b, "--side", "left")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid --side")
	})

	t.Run("both from stdin", func(t *testing.T) {
		_, _, err := execute(t, NewDiffCommand(), nil, "-", "-")
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, NewDiffCommand(), nil, a, filepath.Join(t.TempDir(), "nope.sql"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestDiffCommand_Stdin(t *testing.T) {
	a, _ := sqlFiles(t)
	cmd := NewDiffCommand()
	cmd.SetIn(strings.NewReader(testutil.OriginalSQL))
	out, _, err := execute(t, cmd, nil, a, "-")
	require.NoError(t, err)
	assert.Contains(t, out, "No differences")
}

func TestFormatCommand(t *testing.T) {
	write := func(t *testing.T, content string) string {
		dir := testutil.WriteSQLFiles(t, map[string]string{"q.sql": content})
		return filepath.Join(dir, "q.sql")
	}

	t.Run("print", func(t *testing.T) {
		out, _, err := execute(t, NewFormatCommand(), nil, write(t, "select a from t"))
		require.NoError(t, err)
		assert.Equal(t, "SELECT\n  a\nFROM t\n", out)
	})

	t.Run("indent from flag", func(t *testing.T) {
		cfg := config.Default()
		cfg.Format.Indent = 4
		out, _, err := execute(t, NewFormatCommand(), cfg, write(t, "select a from t"))
		require.NoError(t, err)
		assert.Equal(t, "SELECT\n    a\nFROM t\n", out)
	})

	t.Run("keyword case", func(t *testing.T) {
		out, _, err := execute(t, NewFormatCommand(), nil, write(t, "SELECT a FROM t"), "--keyword-case", "lower")
		require.NoError(t, err)
		assert.Equal(t, "select\n  a\nfrom t\n", out)

		_, _, err = execute(t, NewFormatCommand(), nil, write(t, "SELECT a FROM t"), "--keyword-case", "title")
		require.Error(t, err)
	})

	t.Run("write", func(t *testing.T) {
		path := write(t, "select a from t")
		out, _, err := execute(t, NewFormatCommand(), nil, path, "--write")
		require.NoError(t, err)
		assert.Contains(t, out, "reformatted")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "SELECT\n  a\nFROM t\n", string(data))

		out, _, err = execute(t, NewFormatCommand(), nil, path, "--write")
		require.NoError(t, err)
		assert.Contains(t, out, "unchanged")
	})

	t.Run("check", func(t *testing.T) {
		_, _, err := execute(t, NewFormatCommand(), nil, write(t, "select a from t"), "--check")
		assert.ErrorIs(t, err, ErrNotFormatted)

		out, _, err := execute(t, NewFormatCommand(), nil, write(t, "SELECT\n  a\nFROM t\n"), "--check")
		require.NoError(t, err)
		assert.Contains(t, out, "already formatted")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, NewFormatCommand(), jsonConfig(), write(t, "select a from t"))
		require.NoError(t, err)
		var got output.FormatOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.True(t, got.Changed)
		assert.Equal(t, "SELECT\n  a\nFROM t\n", got.Formatted)
	})

	t.Run("unbalanced", func(t *testing.T) {
		_, _, err := execute(t, NewFormatCommand(), nil, write(t, "SELECT (a"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot format")
	})

	t.Run("write from stdin", func(t *testing.T) {
		_, _, err := execute(t, NewFormatCommand(), nil, "-", "--write")
		require.Error(t, err)
	})
}

func TestFormatCommand_Copy(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	write := func(t *testing.T) string {
		dir := testutil.WriteSQLFiles(t, map[string]string{"q.sql": "select a from t"})
		return filepath.Join(dir, "q.sql")
	}

	t.Run("copied", func(t *testing.T) {
		var got string
		writeClipboard = func(s string) error {
			got = s
			return nil
		}
		out, errOut, err := execute(t, NewFormatCommand(), nil, write(t), "--copy")
		require.NoError(t, err)
		assert.Equal(t, "SELECT\n  a\nFROM t\n", out)
		assert.Equal(t, out, got)
		assert.Contains(t, errOut, "Copied to clipboard.")
	})

	t.Run("clipboard failure is ignored", func(t *testing.T) {
		writeClipboard = func(string) error { return errors.New("no clipboard utilities available") }
		out, errOut, err := execute(t, NewFormatCommand(), nil, write(t), "--copy")
		require.NoError(t, err)
		assert.Equal(t, "SELECT\n  a\nFROM t\n", out)
		assert.NotContains(t, errOut, "Copied")
	})

	t.Run("clipboard failure after write", func(t *testing.T) {
		writeClipboard = func(string) error { return errors.New("no clipboard utilities available") }
		path := write(t)
		out, _, err := execute(t, NewFormatCommand(), nil, path, "--write", "--copy")
		require.NoError(t, err)
		assert.Contains(t, out, "reformatted")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "SELECT\n  a\nFROM t\n", string(data))
	})
}

func TestValidateCommand(t *testing.T) {
	dir := testutil.WriteSQLFiles(t, map[string]string{
		"good.sql": testutil.OriginalSQL,
		"bad.sql":  testutil.InvalidSQL,
	})
	good, bad := filepath.Join(dir, "good.sql"), filepath.Join(dir, "bad.sql")

	t.Run("valid", func(t *testing.T) {
		out, _, err := execute(t, NewValidateCommand(), nil, good)
		require.NoError(t, err)
		assert.Contains(t, out, "ok    "+good)
		assert.Contains(t, out, "No syntax errors")
	})

	t.Run("invalid", func(t *testing.T) {
		out, _, err := execute(t, NewValidateCommand(), nil, good, bad)
		require.ErrorIs(t, err, ErrInvalidSQL)
		assert.Contains(t, err.Error(), "in 1 file(s)")
		assert.Contains(t, out, "fail  "+bad)
		assert.Contains(t, out, "MESSAGE")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, NewValidateCommand(), jsonConfig(), good, bad)
		require.ErrorIs(t, err, ErrInvalidSQL)
		var got output.ValidateOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got.Files, 2)
		assert.Empty(t, got.Files[0].Errors)
		assert.NotEmpty(t, got.Files[1].Errors)
		assert.Equal(t, len(got.Files[1].Errors), got.Total)
	})
}

func TestHighlightCommand(t *testing.T) {
	dir := testutil.WriteSQLFiles(t, map[string]string{"q.sql": "SELECT 1 -- one\nFROM t"})
	path := filepath.Join(dir, "q.sql")

	out, _, err := execute(t, NewHighlightCommand(), nil, path, "-n")
	require.NoError(t, err)
	assert.Equal(t, "1 | SELECT 1 -- one\n2 | FROM t\n", out)

	out, _, err = execute(t, NewHighlightCommand(), jsonConfig(), path)
	require.NoError(t, err)
	var got struct {
		Segments []struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"segments"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotEmpty(t, got.Segments)
	assert.Equal(t, "keyword", got.Segments[0].Kind)
	assert.Equal(t, "SELECT", got.Segments[0].Text)
}

func TestFoldCommand(t *testing.T) {
	dir := testutil.WriteSQLFiles(t, map[string]string{
		"q.sql":    "SELECT a,\n  (b +\n   c) AS x\nFROM t",
		"flat.sql": "SELECT 1",
	})

	out, _, err := execute(t, NewFoldCommand(), jsonConfig(), filepath.Join(dir, "q.sql"))
	require.NoError(t, err)
	var got output.FoldOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Folds, 2)
	assert.Equal(t, 1, got.Folds[0].Line)
	assert.Equal(t, 4, got.Folds[0].EndLine)
	assert.Equal(t, 2, got.Folds[1].Line)
	assert.Equal(t, 3, got.Folds[1].EndLine)

	out, _, err = execute(t, NewFoldCommand(), nil, filepath.Join(dir, "flat.sql"))
	require.NoError(t, err)
	assert.Contains(t, out, "No foldable regions")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b c", preview("a\n  b\tc"))
	long := strings.Repeat("x", 60)
	got := preview(long)
	assert.Len(t, []rune(got), previewLen)
	assert.True(t, strings.HasSuffix(got, "…"))
}

type fakeAnalyzer struct {
	res *analysis.Result
	err error
}

func (f fakeAnalyzer) Analyze(context.Context, string, string) (*analysis.Result, error) {
	return f.res, f.err
}

func TestAnalyze(t *testing.T) {
	a, b := sqlFiles(t)
	res := &analysis.Result{
		Summary:          "Swaps name for email and sorts by id.",
		Impact:           "Adds a sort.",
		OptimizationTips: []string{"Index id"},
	}

	run := func(t *testing.T, cfg *config.Config, an analysis.Analyzer) (string, error) {
		cmd := NewAnalyzeCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetContext(config.WithConfig(context.Background(), cfg))
		err := runAnalyze(cmd, NewCommandContext(cmd), a, b, an)
		return out.String(), err
	}

	t.Run("text", func(t *testing.T) {
		cfg := config.Default()
		cfg.Output = config.OutputMarkdown
		out, err := run(t, cfg, fakeAnalyzer{res: res})
		require.NoError(t, err)
		testutil.AssertValidMarkdown(t, out)
		assert.Contains(t, out, "## Summary")
		assert.Contains(t, out, "Swaps name for email")
		assert.Contains(t, out, "1. Index id")
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, jsonConfig(), fakeAnalyzer{res: res})
		require.NoError(t, err)
		var got output.AnalyzeOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, res, got.Result)
	})

	t.Run("missing credential", func(t *testing.T) {
		cfg := config.Default()
		cfg.Analysis.APIKeyEnv = "SQLLENS_TEST_NO_SUCH_KEY"
		_, _, err := execute(t, NewAnalyzeCommand(), cfg, a, b)
		require.ErrorIs(t, err, analysis.ErrMissingCredential)
		assert.Contains(t, err.Error(), "set SQLLENS_TEST_NO_SUCH_KEY")
	})
}

func TestThemeCommand(t *testing.T) {
	cfg := config.Default()
	cfg.Prefs.Path = filepath.Join(t.TempDir(), "prefs.db")

	out, _, err := execute(t, NewThemeCommand(), cfg, "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme set to dark")

	out, _, err = execute(t, NewThemeCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Theme: dark")

	out, _, err = execute(t, NewThemeCommand(), cfg, "--toggle")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme set to light")

	_, _, err = execute(t, NewThemeCommand(), cfg, "purple")
	require.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")

	out, _, err := execute(t, NewInitCommand(), nil, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	cfg, _, err := config.Load(filepath.Join(dir, config.ConfigFileName), nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, _, err = execute(t, NewInitCommand(), nil, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, NewInitCommand(), nil, dir, "--force")
	require.NoError(t, err)
}
