package decorate

import (
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/diff"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/highlight"
)

// Line is one source line of decorated segments, without its newline.
type Line struct {
	Number   int // 1-based
	Offset   int // byte offset of the first character
	Segments []Segment
}

// Changed reports whether any segment on the line is highlighted.
func (l Line) Changed() bool {
	for _, s := range l.Segments {
		if s.Highlighted() {
			return true
		}
	}
	return false
}

// Text returns the plain text of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// SplitLines breaks segments at newlines. A segment containing a newline is
// split around it; the newline itself is dropped. An empty input yields a
// single empty line, matching how editors show an empty document.
func SplitLines(segments []Segment) []Line {
	lines := []Line{{Number: 1}}
	for _, seg := range segments {
		text, offset := seg.Text, seg.Offset
		for {
			cur := &lines[len(lines)-1]
			nl := strings.IndexByte(text, '\n')
			if nl < 0 {
				if text != "" {
					cur.Segments = append(cur.Segments, Segment{Kind: seg.Kind, Text: text, Offset: offset, Class: seg.Class})
				}
				break
			}
			if nl > 0 {
				piece := strings.TrimSuffix(text[:nl], "\r")
				if piece != "" {
					cur.Segments = append(cur.Segments, Segment{Kind: seg.Kind, Text: piece, Offset: offset, Class: seg.Class})
				}
			}
			lines = append(lines, Line{Number: cur.Number + 1, Offset: offset + nl + 1})
			text = text[nl+1:]
			offset += nl + 1
		}
	}
	return lines
}

// UnifiedSegment is a piece of the combined view in which removed and added
// text appear inline, one after the other.
type UnifiedSegment struct {
	Segment
	Added   bool `json:"added,omitempty"`
	Removed bool `json:"removed,omitempty"`
}

// Unified renders spans as a single document containing both sides. Offsets
// are measured in the combined text.
func Unified(spans []diff.Span, tag dialect.Tag) []UnifiedSegment {
	var out []UnifiedSegment
	base := 0
	for _, s := range spans {
		class := None
		switch {
		case s.Added:
			class = DiffAdd
		case s.Removed:
			class = DiffDel
		}
		for tok := range highlight.Tokenize(s.Text, tag) {
			out = append(out, UnifiedSegment{
				Segment: Segment{Kind: tok.Kind, Text: tok.Text, Offset: base + tok.Offset, Class: class},
				Added:   s.Added,
				Removed: s.Removed,
			})
		}
		base += len(s.Text)
	}
	return out
}

// UnifiedSegments strips the side tags, for callers that only render classes.
func UnifiedSegments(u []UnifiedSegment) []Segment {
	out := make([]Segment, len(u))
	for i, s := range u {
		out[i] = s.Segment
	}
	return out
}
