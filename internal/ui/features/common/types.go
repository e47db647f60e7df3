package common

import "github.com/leapstack-labs/sqllens/pkg/fold"

// DialectOption is one entry of the dialect selector.
type DialectOption struct {
	Value    string
	Label    string
	Selected bool
}

// FoldMarker is a gutter fold toggle: the line it sits on, the last line it
// hides, and the byte range that collapses.
type FoldMarker struct {
	Line    int        `json:"line"`
	EndLine int        `json:"endLine"`
	Range   fold.Range `json:"range"`
}
