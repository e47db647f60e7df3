// Package diff computes word-level differences between two SQL documents and
// projects the shared result onto either side.
package diff

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Span is a run of text tagged relative to a two-document comparison.
// At most one of Added and Removed is set; neither means unchanged.
type Span struct {
	Text    string `json:"value"`
	Added   bool   `json:"added,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

// Unchanged reports whether the span exists on both sides.
func (s Span) Unchanged() bool {
	return !s.Added && !s.Removed
}

// Timeout bounds the search for a minimal diff. Past it the result is still
// a valid edit script for both sides, just not the shortest one.
const Timeout = time.Second

// Words diffs original against modified at word granularity. Whitespace runs
// are tokens of their own, so they survive verbatim in the output. The result
// is nil when both inputs are empty.
func Words(original, modified string) []Span {
	if original == "" && modified == "" {
		return nil
	}

	enc := newTokenEncoder()
	a := enc.encode(original)
	b := enc.encode(modified)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = Timeout
	diffs := dmp.DiffMainRunes(a, b, false)

	spans := make([]Span, 0, len(diffs))
	for _, d := range diffs {
		text := enc.decode(d.Text)
		if text == "" {
			continue
		}
		span := Span{Text: text}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			span.Added = true
		case diffmatchpatch.DiffDelete:
			span.Removed = true
		}
		spans = appendMerged(spans, span)
	}
	return spans
}

// appendMerged appends s, joining it with the previous span when both carry
// the same tag.
func appendMerged(spans []Span, s Span) []Span {
	if n := len(spans); n > 0 {
		last := &spans[n-1]
		if last.Added == s.Added && last.Removed == s.Removed {
			last.Text += s.Text
			return spans
		}
	}
	return append(spans, s)
}

// Text reconstructs one side's document from the shared spans.
func Text(spans []Span, side Side) string {
	var b strings.Builder
	for _, s := range Reconcile(spans, side) {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Stats counts bytes per tag.
type Stats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Changed reports whether any span is added or removed.
func (s Stats) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

// Count tallies spans.
func Count(spans []Span) Stats {
	var st Stats
	for _, s := range spans {
		switch {
		case s.Added:
			st.Added += len(s.Text)
		case s.Removed:
			st.Removed += len(s.Text)
		default:
			st.Unchanged += len(s.Text)
		}
	}
	return st
}

// tokenEncoder maps each distinct word token to a private rune so the
// character-level differ can work on words.
type tokenEncoder struct {
	tokens []string
	index  map[string]rune
	next   rune
}

func newTokenEncoder() *tokenEncoder {
	// Index 0 is unused so that no token encodes to NUL.
	return &tokenEncoder{tokens: []string{""}, index: make(map[string]rune), next: 1}
}

func (e *tokenEncoder) encode(text string) []rune {
	var out []rune
	for _, tok := range splitWords(text) {
		r, ok := e.index[tok]
		if !ok {
			r = e.next
			e.index[tok] = r
			e.tokens = append(e.tokens, tok)
			e.next++
			// Surrogates do not survive a string round trip.
			if e.next == 0xD800 {
				e.next = 0xE000
			}
		}
		out = append(out, r)
	}
	return out
}

func (e *tokenEncoder) decode(encoded string) string {
	var b strings.Builder
	for _, r := range encoded {
		b.WriteString(e.tokens[e.slot(r)])
	}
	return b.String()
}

func (e *tokenEncoder) slot(r rune) int {
	if r >= 0xE000 {
		return int(r) - (0xE000 - 0xD800)
	}
	return int(r)
}

// splitWords splits text into word runs, whitespace runs, single bracket or
// quote characters, and runs of other punctuation.
func splitWords(text string) []string {
	var out []string
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		class := classify(r)
		end := i + size
		if class != classBracket {
			for end < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[end:])
				if classify(r2) != class {
					break
				}
				end += s2
			}
		}
		out = append(out, text[i:end])
		i = end
	}
	return out
}

type charClass int

const (
	classWord charClass = iota
	classSpace
	classBracket
	classPunct
)

func classify(r rune) charClass {
	switch {
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	case unicode.IsSpace(r):
		return classSpace
	case strings.ContainsRune(`()[]{}'"`, r):
		return classBracket
	default:
		return classPunct
	}
}
