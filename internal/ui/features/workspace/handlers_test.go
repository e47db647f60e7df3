package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllens/internal/analysis"
	"github.com/leapstack-labs/sqllens/internal/prefs"
	"github.com/leapstack-labs/sqllens/internal/testutil"
	"github.com/leapstack-labs/sqllens/internal/ui/features"
	"github.com/leapstack-labs/sqllens/internal/ui/features/workspace/pages"
	"github.com/leapstack-labs/sqllens/internal/ui/registry"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/format"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T, opts ...features.FixtureOption) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, opts...)
	handlers := NewHandlers(
		fixture.Registry,
		fixture.Sessions,
		format.DefaultOptions(dialect.Standard),
		testutil.NewTestLogger(t),
		false,
	)
	return handlers, fixture
}

// openSession loads the page once and returns the session cookies and the
// workspace they point at.
func openSession(t *testing.T, h *Handlers, fixture *features.TestFixture) ([]*http.Cookie, *registry.Entry) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.WorkspacePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "first visit should set the session cookie")

	req := withCookies(httptest.NewRequest(http.MethodGet, "/", nil), cookies)
	id := fixture.Sessions.Value(req, WorkspaceKey)
	require.NotEmpty(t, id)

	e, ok := fixture.Registry.Lookup(id)
	require.True(t, ok)
	return cookies, e
}

func withCookies(r *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

// post calls handler with the signals as a JSON body. pathParam is an
// optional chi URL param pair.
func post(t *testing.T, handler http.HandlerFunc, cookies []*http.Cookie, signals pages.Signals, pathParam ...string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(signals)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withCookies(req, cookies)
	if len(pathParam) == 2 {
		req = features.RequestWithPathParam(req, pathParam[0], pathParam[1])
	}

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// stubAnalyzer returns a fixed result.
type stubAnalyzer struct {
	result *analysis.Result
	err    error
}

func (a stubAnalyzer) Analyze(context.Context, string, string) (*analysis.Result, error) {
	return a.result, a.err
}

// =============================================================================
// WorkspacePage Tests - Full HTML page with server-rendered content
// =============================================================================

func TestWorkspacePage(t *testing.T) {
	tests := []struct {
		name     string
		hint     string
		wantBody []string
		notBody  []string
	}{
		{
			name: "returns HTML with editors and live regions",
			wantBody: []string{
				"<!doctype html>",
				"<title>Compare - SQL Lens</title>",
				"data-init",
				"/updates",
				`id="view-original"`,
				`id="view-modified"`,
				`id="problems-original"`,
				`id="actions"`,
				`id="analysis"`,
				`<option value="mysql">MySQL</option>`,
				"data-bind:original",
				"/workspace/format/modified",
				`<button type="button" class="copy" aria-label="Copy Original SQL">Copy</button>`,
				`aria-label="Copy Modified SQL"`,
			},
			notBody: []string{`<body class="dark"`, "/reload"},
		},
		{
			name:     "dark hint renders the dark theme",
			hint:     "dark",
			wantBody: []string{`<body class="dark"`, "&#34;dark&#34;:true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.hint != "" {
				req.Header.Set(prefs.HintHeader, tt.hint)
			}
			rec := httptest.NewRecorder()
			h.WorkspacePage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, prefs.HintHeader, rec.Header().Get("Accept-CH"))
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want, "response should contain %q", want)
			}
			for _, not := range tt.notBody {
				assert.NotContains(t, body, not)
			}
		})
	}
}

func TestWorkspacePage_SessionKeepsWorkspace(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	cookies, e := openSession(t, h, fixture)

	e.Controller.SetOriginal("SELECT a FROM t")
	e.Controller.SetModified("SELECT b FROM t WHERE x < 1")

	rec := httptest.NewRecorder()
	h.WorkspacePage(rec, withCookies(httptest.NewRequest(http.MethodGet, "/", nil), cookies))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "diff-del")
	assert.Contains(t, body, "diff-add")
	assert.Contains(t, body, `<span class="syntax-keyword">SELECT</span>`)
	assert.Contains(t, body, "x &lt; 1", "editor text is escaped")
	assert.Equal(t, 1, fixture.Registry.Len())
}

func TestWorkspacePage_DevReload(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	h := NewHandlers(fixture.Registry, fixture.Sessions, format.DefaultOptions(dialect.Standard), nil, true)

	rec := httptest.NewRecorder()
	h.WorkspacePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "@get('/reload')")
}

// =============================================================================
// WorkspaceUpdates Tests - SSE endpoint for live updates only
// =============================================================================

func TestWorkspaceUpdates_SendsUpdateOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	cookies, e := openSession(t, h, fixture)
	e.Controller.SetOriginal("SELECT 1")

	req := withCookies(httptest.NewRequest(http.MethodGet, "/updates", nil), cookies)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.WorkspaceUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	e.Notifier.Broadcast()
	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1, "should have at least 1 SSE event from broadcast")
	assert.Contains(t, body, "view-original")
	assert.Contains(t, body, "syntax-keyword")
}

func TestWorkspaceUpdates_NoInitialState(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	cookies, _ := openSession(t, h, fixture)

	req := withCookies(httptest.NewRequest(http.MethodGet, "/updates", nil), cookies)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.WorkspaceUpdates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"), "should have no SSE events without a change")
}

func TestWorkspaceUpdates_ValidationErrors(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	cookies, _ := openSession(t, h, fixture)

	req := withCookies(httptest.NewRequest(http.MethodGet, "/updates", nil), cookies)
	ctx, cancel := context.WithTimeout(req.Context(), 400*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.WorkspaceUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	post(t, h.SetDocument, cookies, pages.Signals{Original: "SELECT a\nFROM"}, "side", "original")
	<-done

	body := rec.Body.String()
	assert.Contains(t, body, `class="problem" data-line="2"`)
	assert.Contains(t, body, "has-error")
}

// =============================================================================
// Action Tests
// =============================================================================

func TestSetDocument(t *testing.T) {
	tests := []struct {
		name         string
		side         string
		signals      pages.Signals
		wantStatus   int
		wantOriginal string
		wantModified string
	}{
		{
			name:         "original",
			side:         "original",
			signals:      pages.Signals{Original: "SELECT 1", Modified: "ignored"},
			wantStatus:   http.StatusOK,
			wantOriginal: "SELECT 1",
		},
		{
			name:         "modified",
			side:         "modified",
			signals:      pages.Signals{Original: "ignored", Modified: "SELECT 2"},
			wantStatus:   http.StatusOK,
			wantModified: "SELECT 2",
		},
		{
			name:       "unknown side",
			side:       "left",
			signals:    pages.Signals{Original: "SELECT 1"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			cookies, e := openSession(t, h, fixture)

			rec := post(t, h.SetDocument, cookies, tt.signals, "side", tt.side)
			assert.Equal(t, tt.wantStatus, rec.Code)

			s := e.Controller.Snapshot()
			assert.Equal(t, tt.wantOriginal, s.Original)
			assert.Equal(t, tt.wantModified, s.Modified)
		})
	}
}

func TestSetDocument_BadBody(t *testing.T) {
	h, _ := setupTestHandlers(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	req = features.RequestWithPathParam(req, "side", "original")
	rec := httptest.NewRecorder()

	h.SetDocument(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetDialect(t *testing.T) {
	tests := []struct {
		name     string
		dialect  string
		want     dialect.Tag
		wantBody string
	}{
		{"known", "mysql", dialect.MySQL, ""},
		{"unknown keeps current", "oracle", dialect.Standard, "unknown dialect oracle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			cookies, e := openSession(t, h, fixture)

			rec := post(t, h.SetDialect, cookies, pages.Signals{Dialect: tt.dialect})
			assert.Equal(t, tt.want, e.Controller.Snapshot().Dialect)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSetShowDiff(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	cookies, e := openSession(t, h, fixture)
	e.Controller.SetOriginal("SELECT a")
	e.Controller.SetModified("SELECT b")
	require.NotEmpty(t, e.Controller.Snapshot().Spans)

	post(t, h.SetShowDiff, cookies, pages.Signals{ShowDiff: false})
	s := e.Controller.Snapshot()
	assert.False(t, s.ShowDiff)
	assert.Empty(t, s.Spans)

	post(t, h.SetShowDiff, cookies, pages.Signals{ShowDiff: true})
	assert.NotEmpty(t, e.Controller.Snapshot().Spans)
}

func TestClear(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	cookies, e := openSession(t, h, fixture)
	e.Controller.SetOriginal("SELECT a")
	e.Controller.SetModified("SELECT b")

	rec := post(t, h.Clear, cookies, pages.Signals{})

	assert.True(t, e.Controller.Snapshot().Empty())
	body := rec.Body.String()
	assert.Contains(t, body, "datastar-patch-signals")
	assert.Contains(t, body, `"original":""`)
}

func TestSwap(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	cookies, e := openSession(t, h, fixture)
	e.Controller.SetOriginal("SELECT stale")

	// The editors hold text the controller has not seen yet.
	rec := post(t, h.Swap, cookies, pages.Signals{Original: "SELECT a", Modified: "SELECT b"})

	s := e.Controller.Snapshot()
	assert.Equal(t, "SELECT b", s.Original)
	assert.Equal(t, "SELECT a", s.Modified)
	assert.Contains(t, rec.Body.String(), `"original":"SELECT b"`)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		side    string
		signals pages.Signals
		want    string
		status  int
	}{
		{
			name:    "formats original",
			side:    "original",
			signals: pages.Signals{Original: "select a from t"},
			want:    "SELECT\n  a\nFROM t\n",
			status:  http.StatusOK,
		},
		{
			name:    "unbalanced text is kept",
			side:    "original",
			signals: pages.Signals{Original: "select (a from t"},
			want:    "select (a from t",
			status:  http.StatusOK,
		},
		{
			name:   "unknown side",
			side:   "both",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			cookies, e := openSession(t, h, fixture)

			rec := post(t, h.Format, cookies, tt.signals, "side", tt.side)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			assert.Equal(t, tt.want, e.Controller.Snapshot().Original)
			assert.Contains(t, rec.Body.String(), "datastar-patch-signals")
		})
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		opts     []features.FixtureOption
		signals  pages.Signals
		want     analysis.Status
		wantErr  string
		wantBody string
	}{
		{
			name: "success",
			opts: []features.FixtureOption{features.WithAnalyzer(stubAnalyzer{
				result: &analysis.Result{Summary: "Adds a filter"},
			})},
			signals: pages.Signals{Original: "SELECT a FROM t", Modified: "SELECT a FROM t WHERE b"},
			want:    analysis.Success,
		},
		{
			name:    "no credential",
			signals: pages.Signals{Original: "SELECT 1", Modified: "SELECT 2"},
			want:    analysis.Error,
			wantErr: "API key not found",
		},
		{
			name:     "missing input",
			signals:  pages.Signals{Original: "SELECT 1"},
			want:     analysis.Idle,
			wantBody: "required for analysis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t, tt.opts...)
			cookies, e := openSession(t, h, fixture)

			rec := post(t, h.Analyze, cookies, tt.signals)

			st := e.Controller.Snapshot().Analysis
			assert.Equal(t, tt.want, st.Status)
			assert.Equal(t, tt.wantErr, st.Err)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestToggleTheme(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := post(t, h.ToggleTheme, nil, pages.Signals{})
	assert.Contains(t, rec.Body.String(), `"dark":true`)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = post(t, h.ToggleTheme, cookies, pages.Signals{})
	assert.Contains(t, rec.Body.String(), `"dark":false`)
}

func TestFolds(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	cookies, e := openSession(t, h, fixture)
	e.Controller.SetOriginal("SELECT a,\n  (b +\n   c) AS x\nFROM t")

	tests := []struct {
		side   string
		status int
		folds  int
	}{
		{"original", http.StatusOK, 2},
		{"modified", http.StatusOK, 0},
		{"middle", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.side, func(t *testing.T) {
			req := withCookies(httptest.NewRequest(http.MethodGet, "/api/folds/"+tt.side, nil), cookies)
			req = features.RequestWithPathParam(req, "side", tt.side)
			rec := httptest.NewRecorder()
			h.Folds(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			var resp FoldsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.side, resp.Side)
			assert.Len(t, resp.Folds, tt.folds)
		})
	}
}
