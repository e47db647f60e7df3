package output

import (
	"github.com/leapstack-labs/sqllens/internal/analysis"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/pkg/decorate"
	"github.com/leapstack-labs/sqllens/pkg/diff"
	"github.com/leapstack-labs/sqllens/pkg/fold"
)

// JSON output shapes, one per command.

// DiffOutput is the result of the diff command.
type DiffOutput struct {
	Dialect  string                                `json:"dialect"`
	Original string                                `json:"original"`
	Modified string                                `json:"modified"`
	Stats    diff.Stats                            `json:"stats"`
	Spans    []diff.Span                           `json:"spans"`
	Errors   map[string][]validate.ValidationError `json:"errors,omitempty"`
}

// HighlightOutput is the result of the highlight command.
type HighlightOutput struct {
	File     string             `json:"file"`
	Dialect  string             `json:"dialect"`
	Segments []decorate.Segment `json:"segments"`
}

// FormatOutput is the result of the format command.
type FormatOutput struct {
	File      string `json:"file"`
	Formatted string `json:"formatted"`
	Changed   bool   `json:"changed"`
	Written   bool   `json:"written,omitempty"`
}

// ValidateOutput is the result of the validate command.
type ValidateOutput struct {
	Dialect string       `json:"dialect"`
	Files   []FileErrors `json:"files"`
	Total   int          `json:"total"`
}

// FileErrors lists the syntax errors found in one file.
type FileErrors struct {
	File   string                     `json:"file"`
	Errors []validate.ValidationError `json:"errors"`
}

// FoldOutput is the result of the fold command.
type FoldOutput struct {
	File  string     `json:"file"`
	Folds []FoldInfo `json:"folds"`
}

// FoldInfo describes the fold offered on one line.
type FoldInfo struct {
	Line    int        `json:"line"`
	EndLine int        `json:"endLine"`
	Range   fold.Range `json:"range"`
	Preview string     `json:"preview"`
}

// AnalyzeOutput is the result of the analyze command.
type AnalyzeOutput struct {
	Original string           `json:"original"`
	Modified string           `json:"modified"`
	Result   *analysis.Result `json:"result"`
}
