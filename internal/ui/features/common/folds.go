package common

import "github.com/leapstack-labs/sqllens/pkg/fold"

// FoldMarkers converts per-line folds into gutter markers. Folds that end on
// their own line hide nothing and are dropped.
func FoldMarkers(doc string, folds []fold.LineFold) []FoldMarker {
	if len(folds) == 0 {
		return nil
	}
	lines := fold.Lines(doc)
	out := make([]FoldMarker, 0, len(folds))
	for _, f := range folds {
		end := f.EndLine(lines)
		if end <= f.Line {
			continue
		}
		out = append(out, FoldMarker{Line: f.Line, EndLine: end, Range: f.Range})
	}
	return out
}

// FoldEnds maps a fold's first line to its last hidden line.
func FoldEnds(markers []FoldMarker) map[int]int {
	out := make(map[int]int, len(markers))
	for _, m := range markers {
		out[m.Line] = m.EndLine
	}
	return out
}
