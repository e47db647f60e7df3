package fold

import (
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/parser"
)

// Line is the byte range of one source line, excluding its newline.
type Line struct {
	Number int // 1-based
	Start  int
	End    int
}

// Lines splits doc into lines. An empty document has one empty line.
func Lines(doc string) []Line {
	var out []Line
	start := 0
	for i := 1; ; i++ {
		nl := strings.IndexByte(doc[start:], '\n')
		if nl < 0 {
			return append(out, Line{Number: i, Start: start, End: len(doc)})
		}
		out = append(out, Line{Number: i, Start: start, End: start + nl})
		start += nl + 1
	}
}

// LineFold is the fold offered on a given line.
type LineFold struct {
	Line  int   `json:"line"`
	Range Range `json:"range"`
}

// All returns the fold for every line that has one, in line order. It is
// equivalent to calling FindFold for each line but walks the tree once.
func All(tree *parser.Node, doc string) []LineFold {
	lines := Lines(doc)
	best := make([]candidate, len(lines))

	tree.Walk(func(n *parser.Node) bool {
		r, ok := Foldable(n, doc)
		if !ok {
			return true
		}
		i := lineIndex(lines, n.From)
		best[i] = best[i].consider(candidate{r: r, from: n.From, ok: true})
		return true
	})

	var out []LineFold
	for i, c := range best {
		if c.ok {
			out = append(out, LineFold{Line: lines[i].Number, Range: c.r})
		}
	}
	return out
}

// lineIndex returns the index of the line containing offset.
func lineIndex(lines []Line, offset int) int {
	lo, hi := 0, len(lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lines[mid].Start <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// LineAt returns the 1-based number of the line containing offset.
func LineAt(lines []Line, offset int) int {
	if len(lines) == 0 {
		return 1
	}
	return lines[lineIndex(lines, offset)].Number
}

// EndLine returns the last line a fold hides.
func (lf LineFold) EndLine(lines []Line) int {
	return LineAt(lines, max(lf.Range.To-1, lf.Range.From))
}
