package diff

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords_Scenario(t *testing.T) {
	spans := Words("SELECT * FROM t", "SELECT id FROM t")

	assert.Equal(t, []Span{
		{Text: "SELECT "},
		{Text: "*", Removed: true},
		{Text: "id", Added: true},
		{Text: " FROM t"},
	}, spans)
}

func TestWords_BothEmpty(t *testing.T) {
	assert.Empty(t, Words("", ""))
}

func TestWords_OneSideEmpty(t *testing.T) {
	assert.Equal(t, []Span{{Text: "SELECT 1", Added: true}}, Words("", "SELECT 1"))
	assert.Equal(t, []Span{{Text: "SELECT 1", Removed: true}}, Words("SELECT 1", ""))
}

func TestWords_Identical(t *testing.T) {
	assert.Equal(t, []Span{{Text: "SELECT a\nFROM b"}}, Words("SELECT a\nFROM b", "SELECT a\nFROM b"))
}

func TestWords_WhitespacePreserved(t *testing.T) {
	spans := Words("SELECT a  FROM t", "SELECT a\n  FROM t")
	assert.Equal(t, "SELECT a  FROM t", Text(spans, Original))
	assert.Equal(t, "SELECT a\n  FROM t", Text(spans, Modified))

	var changedSpace bool
	for _, s := range spans {
		if !s.Unchanged() && s.Text != "" {
			changedSpace = true
		}
	}
	assert.True(t, changedSpace)
}

func TestWords_Deterministic(t *testing.T) {
	a := "SELECT a, b, c FROM t WHERE x > 1"
	b := "SELECT a, c, d FROM t WHERE x >= 1 ORDER BY a"
	assert.Equal(t, Words(a, b), Words(a, b))
}

func TestReconcile_ReconstructsBothSides(t *testing.T) {
	pairs := []struct{ a, b string }{
		{"SELECT * FROM t", "SELECT id FROM t"},
		{"", "SELECT 1"},
		{"SELECT 1", ""},
		{"SELECT a,b FROM t", "SELECT a, b, c\nFROM t\nWHERE c > 0"},
		{"select 'it''s' -- c", "SELECT 'it''s' /* c */"},
		{"WITH x AS (SELECT 1) SELECT * FROM x", "WITH y AS (SELECT 2) SELECT * FROM y"},
		{"naïve → 表", "naive -> 表格"},
		{"a\r\nb", "a\nb"},
	}

	for _, p := range pairs {
		t.Run(p.a+"|"+p.b, func(t *testing.T) {
			spans := Words(p.a, p.b)
			assert.Equal(t, p.a, Text(spans, Original))
			assert.Equal(t, p.b, Text(spans, Modified))
			for _, s := range spans {
				assert.False(t, s.Added && s.Removed)
			}
		})
	}
}

func TestWords_LargeDissimilarInput(t *testing.T) {
	var a, b strings.Builder
	for i := range 5000 {
		fmt.Fprintf(&a, "col_%d AS a%d,\n", i, i*7)
		fmt.Fprintf(&b, "expr_%d + %d AS b%d ", i*13, i, i)
	}

	start := time.Now()
	spans := Words(a.String(), b.String())
	assert.Less(t, time.Since(start), 10*Timeout)
	assert.Equal(t, a.String(), Text(spans, Original))
	assert.Equal(t, b.String(), Text(spans, Modified))
}

func TestReconcile_Rules(t *testing.T) {
	spans := []Span{
		{Text: "SELECT "},
		{Text: "*", Removed: true},
		{Text: "id", Added: true},
		{Text: " FROM t"},
	}

	orig := Reconcile(spans, Original)
	require.Len(t, orig, 3)
	assert.Equal(t, ReconciledSpan{Text: "*", Highlighted: true}, orig[1])
	assert.False(t, orig[0].Highlighted)
	assert.False(t, orig[2].Highlighted)

	mod := Reconcile(spans, Modified)
	require.Len(t, mod, 3)
	assert.Equal(t, ReconciledSpan{Text: "id", Highlighted: true}, mod[1])
}

func TestReconcile_Empty(t *testing.T) {
	assert.Empty(t, Reconcile(nil, Original))
	assert.Empty(t, Reconcile(nil, Modified))
}

func TestSplitWords(t *testing.T) {
	assert.Equal(t,
		[]string{"SELECT", " ", "a", ",", " ", "b", ">=", "1", "(", "(", "'", "x", "'", ")", ")"},
		splitWords("SELECT a, b>=1(('x'))"))
	assert.Empty(t, splitWords(""))
}

func TestCount(t *testing.T) {
	st := Count(Words("SELECT * FROM t", "SELECT id FROM t"))
	assert.Equal(t, Stats{Added: 2, Removed: 1, Unchanged: 14}, st)
	assert.True(t, st.Changed())
	assert.False(t, Count(Words("x", "x")).Changed())
}

func TestSide(t *testing.T) {
	s, ok := ParseSide("modified")
	assert.True(t, ok)
	assert.Equal(t, Modified, s)
	assert.Equal(t, Original, s.Other())
	_, ok = ParseSide("left")
	assert.False(t, ok)
	assert.Equal(t, "original", Original.String())
}

func TestTokenEncoderSkipsSurrogates(t *testing.T) {
	enc := newTokenEncoder()
	assert.Equal(t, 0xD7FF, enc.slot(0xD7FF))
	assert.Equal(t, 0xD800, enc.slot(0xE000))
	assert.Equal(t, 0xD801, enc.slot(0xE001))
}
