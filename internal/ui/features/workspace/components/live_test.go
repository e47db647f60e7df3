package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllens/internal/analysis"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/internal/workspace"
	"github.com/leapstack-labs/sqllens/pkg/diff"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestView(t *testing.T) {
	s := workspace.Snapshot{
		Original: "SELECT a,\n  (b +\n   c) AS x\nFROM t",
		Errors: [2][]validate.ValidationError{
			{{StartLine: 4, EndLine: 4, StartColumn: 1, EndColumn: 5, Message: "boom"}},
		},
	}

	out := render(t, View(s, diff.Original))
	assert.Contains(t, out, `<div class="view" id="view-original">`)
	assert.Contains(t, out, `data-line="1" data-fold-end="4"`)
	assert.Contains(t, out, `data-line="2" data-fold-end="3"`)
	assert.Contains(t, out, `aria-label="Fold lines 2-3"`)
	assert.Contains(t, out, `<div class="line has-error" data-line="4" title="boom">`)
	assert.NotContains(t, out, `data-line="3" data-fold-end`)

	empty := render(t, View(s, diff.Modified))
	assert.Contains(t, empty, `id="view-modified"`)
	assert.Contains(t, empty, `class="empty"`)
}

func TestProblems(t *testing.T) {
	s := workspace.Snapshot{Errors: [2][]validate.ValidationError{
		nil,
		{{StartLine: 2, StartColumn: 5, EndLine: 2, EndColumn: 6, Message: "expected <table>"}},
	}}

	out := render(t, Problems(s, diff.Modified))
	assert.Contains(t, out, `id="problems-modified"`)
	assert.Contains(t, out, `data-line="2" data-column="5"`)
	assert.Contains(t, out, `<span class="loc">2:5</span>expected &lt;table&gt;`)
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		name string
		s    workspace.Snapshot
		want string
	}{
		{"empty", workspace.Snapshot{ShowDiff: true}, ""},
		{"hidden", workspace.Snapshot{Original: "a", ShowDiff: false}, "Diff hidden"},
		{"same", workspace.Snapshot{Original: "a", Modified: "a", ShowDiff: true, Spans: diff.Words("a", "a")}, "No changes"},
		{"changed", workspace.Snapshot{Original: "a", Modified: "bb", ShowDiff: true, Spans: diff.Words("a", "bb")}, "+2 −1 chars"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusText(tt.s))
		})
	}
}

func TestActions(t *testing.T) {
	idle := render(t, Actions(workspace.Snapshot{Original: "a", Modified: "b"}))
	assert.Contains(t, idle, `id="actions"`)
	assert.NotContains(t, idle, "disabled")

	busy := render(t, Actions(workspace.Snapshot{Original: "a", Modified: "b", Analysis: analysis.State{Status: analysis.Loading}}))
	assert.Contains(t, busy, "@post('/workspace/analyze')\" disabled>Analyzing…")
}

func TestAnalysis(t *testing.T) {
	tests := []struct {
		name string
		st   analysis.State
		want []string
	}{
		{"idle", analysis.State{}, []string{`id="analysis"`, "Analyze explains"}},
		{"loading", analysis.State{Status: analysis.Loading}, []string{"Analyzing changes"}},
		{"error", analysis.State{Status: analysis.Error, Err: "API key not found"}, []string{`<p class="error">API key not found</p>`}},
		{
			"success",
			analysis.State{Status: analysis.Success, Result: &analysis.Result{
				Summary:          "Adds **filter**",
				Impact:           "Fewer rows",
				OptimizationTips: []string{"Index `b`"},
			}},
			[]string{"<strong>filter</strong>", "Fewer rows", "<li><p>Index <code>b</code></p>\n</li>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, Analysis(tt.st))
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestLive(t *testing.T) {
	s := workspace.Snapshot{Original: "SELECT 1", Modified: "SELECT 2"}
	out := render(t, Live(s))
	for _, id := range []string{"view-original", "view-modified", "problems-original", "problems-modified", "actions", "analysis"} {
		assert.Contains(t, out, `id="`+id+`"`)
	}
}
