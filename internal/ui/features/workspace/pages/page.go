// Package pages renders full HTML documents for the workspace feature.
package pages

import (
	"github.com/leapstack-labs/sqllens/internal/prefs"
	"github.com/leapstack-labs/sqllens/internal/workspace"
	"github.com/leapstack-labs/sqllens/pkg/diff"
)

// DatastarScript is the Datastar client bundle.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// PageData is everything the workspace page needs.
type PageData struct {
	Title    string
	Snapshot workspace.Snapshot
	Theme    prefs.Theme
	IsDev    bool
}

// Signals is the initial client state. Field names match the JSON the
// handlers read back.
type Signals struct {
	Original string `json:"original"`
	Modified string `json:"modified"`
	Dialect  string `json:"dialect"`
	ShowDiff bool   `json:"showDiff"`
	Dark     bool   `json:"dark"`
}

// InitialSignals derives the client state from a snapshot.
func InitialSignals(s workspace.Snapshot, theme prefs.Theme) Signals {
	return Signals{
		Original: s.Original,
		Modified: s.Modified,
		Dialect:  s.Dialect.String(),
		ShowDiff: s.ShowDiff,
		Dark:     theme == prefs.Dark,
	}
}

// Doc returns one side's editor text.
func (s Signals) Doc(side diff.Side) string {
	if side == diff.Modified {
		return s.Modified
	}
	return s.Original
}

func paneLabel(side diff.Side) string {
	if side == diff.Modified {
		return "Modified"
	}
	return "Original"
}

func formatAction(side diff.Side) string {
	return "@post('/workspace/format/" + side.String() + "')"
}

func inputAction(side diff.Side) string {
	return "@post('/workspace/" + side.String() + "')"
}
