package workspace

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/sqllens/internal/analysis"
	"github.com/leapstack-labs/sqllens/internal/prefs"
	"github.com/leapstack-labs/sqllens/internal/ui/features/common"
	"github.com/leapstack-labs/sqllens/internal/ui/features/workspace/components"
	"github.com/leapstack-labs/sqllens/internal/ui/features/workspace/pages"
	"github.com/leapstack-labs/sqllens/internal/ui/registry"
	ws "github.com/leapstack-labs/sqllens/internal/workspace"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/diff"
	"github.com/leapstack-labs/sqllens/pkg/format"
)

// WorkspaceKey is the session key holding the browser's workspace id.
const WorkspaceKey = "workspace"

// Handlers provides HTTP handlers for the workspace feature.
type Handlers struct {
	registry *registry.Registry
	sessions *prefs.SessionStore
	format   format.Options
	logger   *slog.Logger
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(reg *registry.Registry, sessions *prefs.SessionStore, formatOpts format.Options, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		registry: reg,
		sessions: sessions,
		format:   formatOpts,
		logger:   logger,
		isDev:    isDev,
	}
}

// entry returns the caller's workspace, assigning a new id on first visit.
// It may set a cookie, so call it before any body is written.
func (h *Handlers) entry(w http.ResponseWriter, r *http.Request) *registry.Entry {
	id := h.sessions.Value(r, WorkspaceKey)
	if id == "" {
		id = uuid.NewString()
		if err := h.sessions.SetValue(w, r, WorkspaceKey, id); err != nil {
			h.logger.Warn("failed to save workspace id", "error", err)
		}
	}
	return h.registry.Get(id)
}

// WorkspacePage renders the page with the current workspace filled in.
func (h *Handlers) WorkspacePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Accept-CH", prefs.HintHeader)
	w.Header().Add("Vary", prefs.HintHeader)

	e := h.entry(w, r)
	data := pages.PageData{
		Title:    "Compare",
		Snapshot: e.Controller.Snapshot(),
		Theme:    h.sessions.Theme(r),
		IsDev:    h.isDev,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.WorkspacePage(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WorkspaceUpdates is the long-lived SSE endpoint. It patches the live
// regions after every change to the workspace. The initial state is
// rendered by WorkspacePage, so nothing is sent until the first change.
func (h *Handlers) WorkspaceUpdates(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	sse := datastar.NewSSE(w, r)

	updates := e.Notifier.Subscribe()
	defer e.Notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.PatchElementTempl(components.Live(e.Controller.Snapshot())); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// SetDocument stores the edited text of one side.
func (h *Handlers) SetDocument(w http.ResponseWriter, r *http.Request) {
	side, ok := diff.ParseSide(chi.URLParam(r, "side"))
	if !ok {
		http.Error(w, "unknown side", http.StatusBadRequest)
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals pages.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	e := h.entry(w, r)
	e.Controller.SetDocument(side, signals.Doc(side))
	datastar.NewSSE(w, r)
}

// SetDialect switches the dialect for highlighting, validation and
// formatting.
func (h *Handlers) SetDialect(w http.ResponseWriter, r *http.Request) {
	var signals pages.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	e := h.entry(w, r)
	sse := datastar.NewSSE(w, r)
	tag, ok := dialect.ParseTag(signals.Dialect)
	if !ok {
		_ = sse.ConsoleError(errors.New("unknown dialect " + signals.Dialect))
		_ = sse.MarshalAndPatchSignals(map[string]any{"dialect": e.Controller.Snapshot().Dialect.String()})
		return
	}
	e.Controller.SetDialect(tag)
}

// SetShowDiff toggles diff highlighting.
func (h *Handlers) SetShowDiff(w http.ResponseWriter, r *http.Request) {
	var signals pages.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	e := h.entry(w, r)
	e.Controller.SetShowDiff(signals.ShowDiff)
	datastar.NewSSE(w, r)
}

// Clear empties both editors.
func (h *Handlers) Clear(w http.ResponseWriter, r *http.Request) {
	e := h.entry(w, r)
	sse := datastar.NewSSE(w, r)
	e.Controller.Clear()
	if err := sse.MarshalAndPatchSignals(map[string]any{"original": "", "modified": ""}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Swap exchanges the two documents, syncing the editors first so text typed
// within the debounce window is not lost.
func (h *Handlers) Swap(w http.ResponseWriter, r *http.Request) {
	var signals pages.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	e := h.entry(w, r)
	sse := datastar.NewSSE(w, r)
	h.sync(e, signals)
	e.Controller.Swap()

	s := e.Controller.Snapshot()
	if err := sse.MarshalAndPatchSignals(map[string]any{"original": s.Original, "modified": s.Modified}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Format rewrites one document with the formatter. Text that cannot be
// formatted is left unchanged.
func (h *Handlers) Format(w http.ResponseWriter, r *http.Request) {
	side, ok := diff.ParseSide(chi.URLParam(r, "side"))
	if !ok {
		http.Error(w, "unknown side", http.StatusBadRequest)
		return
	}
	var signals pages.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	e := h.entry(w, r)
	sse := datastar.NewSSE(w, r)
	e.Controller.SetDocument(side, signals.Doc(side))
	out := e.Controller.Snapshot().Formatted(side, h.format)
	e.Controller.SetDocument(side, out)

	if err := sse.MarshalAndPatchSignals(map[string]any{side.String(): out}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Analyze asks the analysis service to explain the change. Progress and
// the result reach the page through the updates stream.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var signals pages.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	e := h.entry(w, r)
	sse := datastar.NewSSE(w, r)
	h.sync(e, signals)

	_, err := e.Controller.Analyze(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, analysis.ErrMissingInput), errors.Is(err, ws.ErrAnalysisInFlight):
		_ = sse.ConsoleError(err)
	default:
		h.logger.Debug("analysis failed", "error", err)
	}
}

// ToggleTheme flips and persists the theme.
func (h *Handlers) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme := h.sessions.Theme(r).Toggle()
	if err := h.sessions.SetTheme(w, r, theme); err != nil {
		h.logger.Warn("failed to save theme", "error", err)
	}
	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(map[string]any{"dark": theme == prefs.Dark}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// FoldsResponse is the JSON body of the folds endpoint.
type FoldsResponse struct {
	Side  string              `json:"side"`
	Folds []common.FoldMarker `json:"folds"`
}

// Folds returns the gutter fold markers of one side as JSON.
func (h *Handlers) Folds(w http.ResponseWriter, r *http.Request) {
	side, ok := diff.ParseSide(chi.URLParam(r, "side"))
	if !ok {
		http.Error(w, "unknown side", http.StatusBadRequest)
		return
	}

	e := h.entry(w, r)
	s := e.Controller.Snapshot()
	resp := FoldsResponse{
		Side:  side.String(),
		Folds: common.FoldMarkers(s.Doc(side), s.Folds(side)),
	}
	if resp.Folds == nil {
		resp.Folds = []common.FoldMarker{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Warn("failed to write folds", "error", err)
	}
}

// sync brings the controller up to date with the editors.
func (h *Handlers) sync(e *registry.Entry, signals pages.Signals) {
	e.Controller.SetOriginal(signals.Original)
	e.Controller.SetModified(signals.Modified)
}
