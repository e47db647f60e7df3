// Package fold locates collapsible regions of SQL source for editor gutters.
//
// A node is foldable when it spans at least two lines and either is wrapped
// in a balanced pair of parentheses or starts with one of the block
// keywords CASE, BEGIN, CREATE, SELECT or WITH. Parenthesized regions fold
// strictly inside the parentheses; keyword blocks fold from the end of their
// first line to their end, so the keyword stays visible.
//
// When several nodes starting on the same line qualify, the one with the
// largest folded span wins. Ties go to the node that starts first, then to
// the outermost node.
package fold

import (
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/parser"
)

// Range is a half-open byte range [From, To) that collapses when folded.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Len returns the number of bytes hidden by the fold.
func (r Range) Len() int {
	return r.To - r.From
}

// leadWindow is how far into a node the leading keyword is looked for.
const leadWindow = 10

var blockKeywords = map[string]bool{
	"CASE":   true,
	"BEGIN":  true,
	"CREATE": true,
	"SELECT": true,
	"WITH":   true,
}

// FindFold returns the best fold for nodes of tree starting within the
// byte range [lineStart, lineEnd] of doc.
func FindFold(tree *parser.Node, doc string, lineStart, lineEnd int) (Range, bool) {
	var best candidate
	tree.Walk(func(n *parser.Node) bool {
		if n.From > lineEnd || n.To < lineStart {
			return false
		}
		if n.From >= lineStart {
			if r, ok := Foldable(n, doc); ok {
				best = best.consider(candidate{r: r, from: n.From, ok: true})
			}
		}
		return true
	})
	return best.r, best.ok
}

// Foldable reports whether n can fold and, if so, the range it hides.
func Foldable(n *parser.Node, doc string) (Range, bool) {
	if n.Kind == parser.Script {
		return Range{}, false
	}
	text := n.Text(doc)
	if !strings.Contains(text, "\n") {
		return Range{}, false
	}

	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		r := Range{From: n.From + 1, To: n.To - 1}
		return r, r.Len() > 0
	}

	if !blockKeywords[leadingWord(text)] {
		return Range{}, false
	}
	eol := strings.IndexByte(text, '\n')
	r := Range{From: n.From + eol, To: n.To}
	if strings.HasSuffix(text[:eol], "\r") {
		r.From--
	}
	return r, r.From < r.To
}

// leadingWord returns the upper-cased identifier at the start of the first
// leadWindow bytes of text.
func leadingWord(text string) string {
	window := text[:min(len(text), leadWindow)]
	end := 0
	for end < len(window) && isWordChar(window[end]) {
		end++
	}
	return strings.ToUpper(window[:end])
}

func isWordChar(c byte) bool {
	return c|0x20 >= 'a' && c|0x20 <= 'z' || c >= '0' && c <= '9' || c == '_'
}

// candidate tracks the best fold seen so far. Candidates are offered in
// pre-order, so an equal candidate never replaces an outer one.
type candidate struct {
	r    Range
	from int
	ok   bool
}

func (c candidate) consider(o candidate) candidate {
	switch {
	case !c.ok:
		return o
	case o.r.Len() != c.r.Len():
		if o.r.Len() > c.r.Len() {
			return o
		}
	case o.from < c.from:
		return o
	}
	return c
}
