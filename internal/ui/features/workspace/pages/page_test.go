package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllens/internal/prefs"
	"github.com/leapstack-labs/sqllens/internal/workspace"
	"github.com/leapstack-labs/sqllens/pkg/diff"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
)

func renderPage(t *testing.T, data PageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WorkspacePage(data).Render(context.Background(), &buf))
	return buf.String()
}

func TestWorkspacePage(t *testing.T) {
	s := workspace.Snapshot{Original: "SELECT 1", Modified: "x < 1", Dialect: dialect.MySQL, ShowDiff: true}
	out := renderPage(t, PageData{Title: "Compare", Snapshot: s, Theme: prefs.Light})

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Compare - SQL Lens</title>")
	assert.Contains(t, out, `<option value="mysql" selected>`)
	assert.Contains(t, out, `data-on:change="@post('/workspace/diff')" checked>`)
	assert.Contains(t, out, "data-bind:original data-on:input__debounce.150ms=")
	assert.Contains(t, out, "data-bind:modified data-on:input__debounce.150ms=")
	assert.Contains(t, out, ">x &lt; 1</textarea>")
	assert.NotContains(t, out, `<body class="dark"`)
	assert.NotContains(t, out, "/reload")
}

func TestWorkspacePage_CopyButtons(t *testing.T) {
	out := renderPage(t, PageData{Title: "Compare"})

	assert.Equal(t, 2, strings.Count(out, `class="copy"`))
	for _, label := range []string{"Original", "Modified"} {
		assert.Contains(t, out, `<button type="button" class="copy" aria-label="Copy `+label+` SQL">Copy</button>`)
	}
}

func TestWorkspacePage_DevReload(t *testing.T) {
	out := renderPage(t, PageData{Title: "Compare", Theme: prefs.Dark, IsDev: true})
	assert.Contains(t, out, `<body class="dark"`)
	assert.Contains(t, out, `<div hidden data-init="@get('/reload')"></div>`)
}

func TestSignals_Doc(t *testing.T) {
	s := Signals{Original: "a", Modified: "b"}
	assert.Equal(t, "a", s.Doc(diff.Original))
	assert.Equal(t, "b", s.Doc(diff.Modified))
}
