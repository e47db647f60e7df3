package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/pkg/decorate"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/highlight"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingValidator struct{}

func (countingValidator) Validate(_ context.Context, sql string, _ dialect.Tag) []validate.ValidationError {
	if strings.Contains(sql, "bad") {
		return []validate.ValidationError{{StartLine: 1, EndLine: 1, StartColumn: 1, EndColumn: 2, Message: "x"}}
	}
	return nil
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newLoaded(t *testing.T, original, modified string) *Model {
	t.Helper()
	loads := 0
	m := New(Options{
		Dialect: dialect.Standard,
		Load: func() (string, string, error) {
			loads++
			return original, modified, nil
		},
		Validator: countingValidator{},
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	m.Update(m.Init()())
	require.Equal(t, 1, loads)
	return m
}

func TestModel_LoadAndView(t *testing.T) {
	m := newLoaded(t, "SELECT a FROM t", "SELECT b FROM bad")

	view := m.View()
	assert.Contains(t, view, "SQL Lens")
	assert.Contains(t, view, "Standard SQL")
	assert.Contains(t, view, "Original")
	assert.Contains(t, view, "Modified (1 errors)")
	assert.Contains(t, view, "SELECT")
	assert.Equal(t, [2]int{0, 1}, m.errs)
	assert.True(t, m.stats.Changed())
}

func TestModel_LoadingUntilReady(t *testing.T) {
	m := New(Options{Dialect: dialect.Standard})
	assert.Equal(t, "Loading…", m.View())
}

func TestModel_LoadError(t *testing.T) {
	m := New(Options{Load: func() (string, string, error) {
		return "", "", errors.New("no such file")
	}})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	m.Update(m.Init()())
	assert.Contains(t, m.View(), "no such file")
}

func TestModel_Keys(t *testing.T) {
	m := newLoaded(t, "SELECT a FROM t", "SELECT b FROM bad")

	m.Update(keyMsg("s"))
	assert.Equal(t, "SELECT b FROM bad", m.original)
	assert.Equal(t, [2]int{1, 0}, m.errs)

	m.Update(keyMsg("d"))
	assert.False(t, m.showDiff)
	assert.False(t, m.stats.Changed())
	assert.Contains(t, m.View(), "diff off")

	m.Update(keyMsg("u"))
	assert.True(t, m.unified)
	assert.Contains(t, m.View(), "Unified")

	_, cmd := m.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	_, ok := cmd().(loadedMsg)
	assert.True(t, ok)

	_, cmd = m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRenderLine_ClipsAndPads(t *testing.T) {
	m := New(Options{})
	line := decorate.SplitLines(decorate.Segments(highlight.Tokenize("SELECT '日本語' FROM t", dialect.Standard), nil))[0]

	for _, width := range []int{4, 10, 11, 40} {
		got := m.renderLine(line, width)
		assert.Equal(t, width, runewidth.StringWidth(got), "width %d", width)
	}
}

func TestPane_LineNumbers(t *testing.T) {
	m := New(Options{})
	lines := decorate.SplitLines(decorate.Segments(highlight.Tokenize("SELECT 1\nFROM t", dialect.Standard), nil))
	got := strings.Split(m.pane(lines, 20), "\n")
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0], "   1 SELECT 1"))
	assert.True(t, strings.HasPrefix(got[1], "   2 FROM t"))
}

func TestModel_CopyKeys(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	var copied []string
	writeClipboard = func(text string) error {
		copied = append(copied, text)
		return nil
	}

	m := newLoaded(t, "SELECT a FROM t", "SELECT b FROM t")

	_, cmd := m.Update(keyMsg("y"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Copied modified")

	m.Update(keyMsg("Y"))
	assert.Equal(t, []string{"SELECT b FROM t", "SELECT a FROM t"}, copied)
	assert.Contains(t, m.View(), "Copied original")

	m.Update(keyMsg("d"))
	assert.NotContains(t, m.View(), "Copied")
}

func TestModel_CopyFailureIsIgnored(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })
	writeClipboard = func(string) error { return errors.New("no clipboard utility") }

	m := newLoaded(t, "SELECT a FROM t", "SELECT b FROM t")

	_, cmd := m.Update(keyMsg("y"))
	assert.Nil(t, cmd)
	view := m.View()
	assert.NotContains(t, view, "Copied")
	assert.NotContains(t, view, "no clipboard utility")
	assert.Nil(t, m.err)
}
