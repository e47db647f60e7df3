package workspace

import (
	"github.com/leapstack-labs/sqllens/internal/analysis"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/pkg/decorate"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/diff"
	"github.com/leapstack-labs/sqllens/pkg/fold"
	"github.com/leapstack-labs/sqllens/pkg/format"
	"github.com/leapstack-labs/sqllens/pkg/highlight"
	"github.com/leapstack-labs/sqllens/pkg/parser"
)

// Snapshot is an immutable view of a workspace. Its slices must not be
// modified.
type Snapshot struct {
	Original   string
	Modified   string
	Dialect    dialect.Tag
	ShowDiff   bool
	Spans      []diff.Span
	Highlights [2][]decorate.HighlightRange
	Errors     [2][]validate.ValidationError
	Analysis   analysis.State
	Version    uint64
}

// Doc returns one side's document.
func (s Snapshot) Doc(side diff.Side) string {
	if side == diff.Modified {
		return s.Modified
	}
	return s.Original
}

// Empty reports whether both documents are empty.
func (s Snapshot) Empty() bool {
	return s.Original == "" && s.Modified == ""
}

// CanAnalyze reports whether analysis may start.
func (s Snapshot) CanAnalyze() bool {
	return analysis.HasInput(s.Original, s.Modified) && !s.Analysis.Busy()
}

// Segments returns one side's tokens split at diff highlight boundaries.
func (s Snapshot) Segments(side diff.Side) []decorate.Segment {
	return decorate.Segments(highlight.Tokenize(s.Doc(side), s.Dialect), s.Highlights[side])
}

// Lines groups Segments by source line.
func (s Snapshot) Lines(side diff.Side) []decorate.Line {
	return decorate.SplitLines(s.Segments(side))
}

// Folds returns the fold offered on each line of one side.
func (s Snapshot) Folds(side diff.Side) []fold.LineFold {
	doc := s.Doc(side)
	if doc == "" {
		return nil
	}
	tree, _ := parser.ParseAll(doc, dialect.Lookup(s.Dialect))
	return fold.All(tree, doc)
}

// Stats counts changed bytes.
func (s Snapshot) Stats() diff.Stats {
	return diff.Count(s.Spans)
}

// Formatted returns one side's document formatted, or unchanged when it
// cannot be formatted.
func (s Snapshot) Formatted(side diff.Side, opts format.Options) string {
	opts.Dialect = s.Dialect
	return format.FormatOrOriginal(s.Doc(side), opts)
}
