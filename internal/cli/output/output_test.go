package output

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqllens/pkg/decorate"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/diff"
	"github.com/leapstack-labs/sqllens/pkg/highlight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTest(mode OutputMode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewRendererWithTTY(&out, &errOut, tty, mode), &out, &errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode OutputMode
		tty  bool
		want OutputMode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeJSON, true, ModeJSON},
		{ModeMarkdown, true, ModeMarkdown},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _, _ := newTest(tt.mode, tt.tty)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_PlainHasNoANSI(t *testing.T) {
	r, out, errOut := newTest(ModeText, false)
	r.Header(1, "Title")
	r.Success("done")
	r.Warning("careful")
	r.Muted("quiet")
	r.KeyValue("Dialect", "MySQL")
	r.StatusLine("a.sql", StatusFail, "(2 errors)")
	r.Error("broken")

	assert.NotContains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "OK done")
	assert.Contains(t, out.String(), "WARN careful")
	assert.Contains(t, out.String(), "Dialect: MySQL")
	assert.Contains(t, out.String(), "fail  a.sql (2 errors)")
	assert.Equal(t, "ERROR broken\n", errOut.String())
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, _ := newTest(ModeMarkdown, false)
	r.Header(2, "Diff")
	r.KeyValue("Added", "3")
	assert.Equal(t, "## Diff\n\n- **Added:** 3\n", out.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTest(ModeJSON, false)
	require.NoError(t, r.JSON(FormatOutput{File: "a.sql", Formatted: "SELECT 1\n", Changed: true}))
	assert.JSONEq(t, `{"file":"a.sql","formatted":"SELECT 1\n","changed":true}`, out.String())
}

func TestSegments_Markers(t *testing.T) {
	r, _, _ := newTest(ModeText, false)
	spans := diff.Words("SELECT a FROM t", "SELECT b FROM t")

	orig, err := decorate.Decorate("SELECT a FROM t", spans, diff.Original, dialect.Standard)
	require.NoError(t, err)
	assert.Equal(t, "SELECT [-a-] FROM t", r.Segments(orig))

	mod, err := decorate.Decorate("SELECT b FROM t", spans, diff.Modified, dialect.Standard)
	require.NoError(t, err)
	assert.Equal(t, "SELECT {+b+} FROM t", r.Segments(mod))
}

func TestSegments_AdjacentRunsMerge(t *testing.T) {
	r, _, _ := newTest(ModeText, false)
	segs := []decorate.Segment{
		{Kind: highlight.Keyword, Text: "SELECT", Class: decorate.DiffAdd},
		{Kind: highlight.Whitespace, Text: " ", Offset: 6, Class: decorate.DiffAdd},
		{Kind: highlight.Number, Text: "1", Offset: 7},
	}
	assert.Equal(t, "{+SELECT +}1", r.Segments(segs))
}

func TestLines_Numbered(t *testing.T) {
	r, _, _ := newTest(ModeText, false)
	lines := decorate.SplitLines(decorate.Segments(highlight.Tokenize("SELECT a\nFROM t", dialect.Standard), nil))
	got := r.Lines(lines, true)
	assert.Equal(t, "1 | SELECT a\n2 | FROM t\n", got)
}

func TestSQL_Markdown(t *testing.T) {
	r, out, _ := newTest(ModeMarkdown, false)
	r.SQL(decorate.Segments(highlight.Tokenize("SELECT 1", dialect.Standard), nil), false)
	assert.Equal(t, "```sql\nSELECT 1\n```\n", out.String())
}

func TestSegments_Colour(t *testing.T) {
	r, _, _ := newTest(ModeText, true)
	assert.True(t, r.Colour())
	segs := []decorate.Segment{{Kind: highlight.Keyword, Text: "SELECT"}}
	assert.Contains(t, r.Segments(segs), "SELECT")
}

func TestTable(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTest(ModeMarkdown, false)
		r.Table(table.Row{"File", "Errors"}, []table.Row{{"a.sql", 2}})
		assert.Regexp(t, `(?i)\| file \| errors \|`, out.String())
		assert.Contains(t, out.String(), "| a.sql | 2 |")
	})

	t.Run("plain", func(t *testing.T) {
		r, out, _ := newTest(ModeText, false)
		r.Table(table.Row{"File", "Errors"}, []table.Row{{"a.sql", 2}})
		assert.Contains(t, out.String(), "FILE")
		assert.Contains(t, out.String(), "a.sql")
		assert.NotContains(t, out.String(), "│")
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# A", FormatHeader(0, "A"))
	assert.Equal(t, "###### A", FormatHeader(9, "A"))
	assert.Equal(t, "```sql\nSELECT 1\n```", FormatCodeBlock("sql", "SELECT 1\n\n"))
	assert.Equal(t, "- **k:** v", FormatKeyValue("k", "v"))
}
