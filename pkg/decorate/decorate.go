// Package decorate turns diff spans and display tokens into styled segments
// for an editor surface.
package decorate

import (
	"errors"
	"iter"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/diff"
	"github.com/leapstack-labs/sqllens/pkg/highlight"
)

// ErrStaleDiff is returned when the diff spans do not describe the document
// being decorated.
var ErrStaleDiff = errors.New("diff does not match document")

// Class is the visual treatment of a highlight range.
type Class int

// Highlight classes.
const (
	None Class = iota
	DiffAdd
	DiffDel
)

// String returns the CSS class name for c.
func (c Class) String() string {
	switch c {
	case DiffAdd:
		return "diff-add"
	case DiffDel:
		return "diff-del"
	default:
		return ""
	}
}

// MarshalText encodes c as its CSS class name.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ClassFor returns the class used for highlighted spans on side.
func ClassFor(side diff.Side) Class {
	if side == diff.Modified {
		return DiffAdd
	}
	return DiffDel
}

// HighlightRange is a half-open byte range [Start, End) of the displayed document.
type HighlightRange struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Class Class `json:"class"`
}

// Len returns the number of bytes covered.
func (r HighlightRange) Len() int {
	return r.End - r.Start
}

// MapToHighlights walks reconciled spans with a cursor over the displayed
// document and emits a range for every highlighted span. Ranges come out
// ascending and non-overlapping; empty spans produce nothing.
func MapToHighlights(spans []diff.ReconciledSpan, side diff.Side) []HighlightRange {
	class := ClassFor(side)
	var out []HighlightRange
	cursor := 0
	for _, s := range spans {
		n := len(s.Text)
		if s.Highlighted && n > 0 {
			out = append(out, HighlightRange{Start: cursor, End: cursor + n, Class: class})
		}
		cursor += n
	}
	return out
}

// Extent returns the length of the document the spans describe.
func Extent(spans []diff.ReconciledSpan) int {
	n := 0
	for _, s := range spans {
		n += len(s.Text)
	}
	return n
}

// Segment is a display token, or the part of one, under a single highlight class.
type Segment struct {
	Kind   highlight.Kind `json:"kind"`
	Text   string         `json:"text"`
	Offset int            `json:"offset"`
	Class  Class          `json:"class,omitempty"`
}

// Highlighted reports whether the segment carries a diff class.
func (s Segment) Highlighted() bool {
	return s.Class != None
}

// End returns the byte offset just past the segment.
func (s Segment) End() int {
	return s.Offset + len(s.Text)
}

// Segments intersects the token partition with the highlight partition.
// Tokens straddling a range boundary are split so that every segment lies
// entirely inside or entirely outside a range.
func Segments(tokens iter.Seq[highlight.Token], ranges []HighlightRange) []Segment {
	var out []Segment
	i := 0
	for tok := range tokens {
		start, end := tok.Offset, tok.End()
		for start < end {
			for i < len(ranges) && ranges[i].End <= start {
				i++
			}
			cut := end
			class := None
			if i < len(ranges) && ranges[i].Start <= start {
				class = ranges[i].Class
				cut = min(end, ranges[i].End)
			} else if i < len(ranges) {
				cut = min(end, ranges[i].Start)
			}
			out = append(out, Segment{
				Kind:   tok.Kind,
				Text:   tok.Text[start-tok.Offset : cut-tok.Offset],
				Offset: start,
				Class:  class,
			})
			start = cut
		}
	}
	return out
}

// Decorate renders one side of a comparison: doc is tokenized for tag and the
// diff spans, when present, are projected onto side and intersected with the
// tokens. Nil spans decorate without highlights. Spans that do not describe
// doc are rejected with ErrStaleDiff and doc is decorated without highlights.
func Decorate(doc string, spans []diff.Span, side diff.Side, tag dialect.Tag) ([]Segment, error) {
	tokens := highlight.Tokenize(doc, tag)
	if len(spans) == 0 {
		return Segments(tokens, nil), nil
	}
	reconciled := diff.Reconcile(spans, side)
	if Extent(reconciled) != len(doc) {
		return Segments(tokens, nil), ErrStaleDiff
	}
	return Segments(tokens, MapToHighlights(reconciled, side)), nil
}
