package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/decorate"
)

// Plain-text diff markers, as in git's word diff.
const (
	removedOpen  = "[-"
	removedClose = "-]"
	addedOpen    = "{+"
	addedClose   = "+}"
)

// Colour reports whether output is styled with ANSI sequences.
func (r *Renderer) Colour() bool {
	return r.isTTY && r.EffectiveMode() == ModeText
}

// Segments renders one line of decorated segments. With colour each
// segment gets its syntax and diff styling; without, changed runs are
// wrapped in [-removed-] and {+added+} markers.
func (r *Renderer) Segments(segs []decorate.Segment) string {
	var b strings.Builder
	if r.Colour() {
		for _, seg := range segs {
			b.WriteString(r.styles.Segment(seg).Render(seg.Text))
		}
		return b.String()
	}

	cur := decorate.None
	for _, seg := range segs {
		if seg.Class != cur {
			b.WriteString(closeMark(cur))
			b.WriteString(openMark(seg.Class))
			cur = seg.Class
		}
		b.WriteString(seg.Text)
	}
	b.WriteString(closeMark(cur))
	return b.String()
}

// Lines renders decorated lines, optionally behind a line-number gutter.
func (r *Renderer) Lines(lines []decorate.Line, numbered bool) string {
	width := len(strconv.Itoa(len(lines)))
	sep := " | "
	if r.isTTY {
		sep = " │ "
	}
	var b strings.Builder
	for _, line := range lines {
		if numbered {
			b.WriteString(r.styles.LineNumber.Render(fmt.Sprintf("%*d", width, line.Number) + sep))
		}
		b.WriteString(r.Segments(line.Segments))
		b.WriteByte('\n')
	}
	return b.String()
}

// SQL writes decorated segments as lines. In Markdown mode they are fenced.
func (r *Renderer) SQL(segs []decorate.Segment, numbered bool) {
	body := r.Lines(decorate.SplitLines(segs), numbered)
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatCodeBlock("sql", body))
		return
	}
	r.Printf("%s", body)
}

func openMark(c decorate.Class) string {
	switch c {
	case decorate.DiffDel:
		return removedOpen
	case decorate.DiffAdd:
		return addedOpen
	}
	return ""
}

func closeMark(c decorate.Class) string {
	switch c {
	case decorate.DiffDel:
		return removedClose
	case decorate.DiffAdd:
		return addedClose
	}
	return ""
}
