package diff

// Side selects which document a projection is for.
type Side int

// Sides of a comparison.
const (
	Original Side = iota
	Modified
)

// String returns "original" or "modified".
func (s Side) String() string {
	if s == Modified {
		return "modified"
	}
	return "original"
}

// ParseSide parses "original" or "modified".
func ParseSide(name string) (Side, bool) {
	switch name {
	case "original":
		return Original, true
	case "modified":
		return Modified, true
	default:
		return Original, false
	}
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Modified {
		return Original
	}
	return Modified
}

// ReconciledSpan is a span projected onto one side's document.
type ReconciledSpan struct {
	Text        string
	Highlighted bool
}

// Reconcile projects the shared spans onto side. Spans that only exist on
// the other side are dropped; spans that only exist on this side are
// highlighted. The surviving texts concatenate to exactly that side's
// document.
func Reconcile(spans []Span, side Side) []ReconciledSpan {
	out := make([]ReconciledSpan, 0, len(spans))
	for _, s := range spans {
		var own, foreign bool
		if side == Original {
			own, foreign = s.Removed, s.Added
		} else {
			own, foreign = s.Added, s.Removed
		}
		if foreign {
			continue
		}
		out = append(out, ReconciledSpan{Text: s.Text, Highlighted: own})
	}
	return out
}
