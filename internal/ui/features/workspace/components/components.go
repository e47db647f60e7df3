// Package components renders the parts of the workspace page that the
// server patches over SSE.
package components

import (
	"strings"

	"github.com/leapstack-labs/sqllens/internal/ui/features/common"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/internal/workspace"
	"github.com/leapstack-labs/sqllens/pkg/diff"
)

// Sides lists the two documents in display order.
var Sides = []diff.Side{diff.Original, diff.Modified}

// ViewID is the element id of one side's highlighted view.
func ViewID(side diff.Side) string {
	return "view-" + side.String()
}

// ProblemsID is the element id of one side's error list.
func ProblemsID(side diff.Side) string {
	return "problems-" + side.String()
}

// LineView is one rendered line of a document view.
type LineView struct {
	Number   int
	Changed  bool
	FoldEnd  int // last line hidden by the fold starting here, 0 for none
	Errors   []string
	Segments []SegmentView
}

// SegmentView is a run of text and the classes it is drawn with.
type SegmentView struct {
	Text  string
	Class string
}

// LineViews decorates one side's lines with their folds and errors.
func LineViews(s workspace.Snapshot, side diff.Side) []LineView {
	ends := common.FoldEnds(common.FoldMarkers(s.Doc(side), s.Folds(side)))
	errs := errorsByLine(s.Errors[side])

	lines := s.Lines(side)
	out := make([]LineView, len(lines))
	for i, line := range lines {
		segs := make([]SegmentView, len(line.Segments))
		for j, seg := range line.Segments {
			segs[j] = SegmentView{Text: seg.Text, Class: common.ClassNames(seg.Kind.Class(), seg.Class.String())}
		}
		out[i] = LineView{
			Number:   line.Number,
			Changed:  line.Changed(),
			FoldEnd:  ends[line.Number],
			Errors:   errs[line.Number],
			Segments: segs,
		}
	}
	return out
}

func (l LineView) class() string {
	changed, failed := "", ""
	if l.Changed {
		changed = "changed"
	}
	if len(l.Errors) > 0 {
		failed = "has-error"
	}
	return common.ClassNames("line", changed, failed)
}

func (l LineView) title() string {
	return strings.Join(l.Errors, "\n")
}

func (l LineView) foldLabel() string {
	return "Fold lines " + common.Itoa(l.Number) + "-" + common.Itoa(l.FoldEnd)
}

// errorsByLine indexes error messages by every line they cover.
func errorsByLine(errs []validate.ValidationError) map[int][]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[int][]string)
	for _, e := range errs {
		for l := e.StartLine; l <= max(e.StartLine, e.EndLine); l++ {
			out[l] = append(out[l], e.Message)
		}
	}
	return out
}

func location(e validate.ValidationError) string {
	return common.Itoa(e.StartLine) + ":" + common.Itoa(e.StartColumn)
}

// StatusText summarizes the diff for the action bar.
func StatusText(s workspace.Snapshot) string {
	switch {
	case s.Empty():
		return ""
	case !s.ShowDiff:
		return "Diff hidden"
	}
	st := s.Stats()
	if !st.Changed() {
		return "No changes"
	}
	return "+" + common.Itoa(st.Added) + " −" + common.Itoa(st.Removed) + " chars"
}
