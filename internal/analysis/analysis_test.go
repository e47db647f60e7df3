package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/sqllens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompletions serves the chat completions endpoint with a fixed answer.
type fakeCompletions struct {
	content string
	status  int
	calls   atomic.Int32
	gate    chan struct{}
	entered chan struct{}

	mu       sync.Mutex
	lastBody map[string]any
}

func (f *fakeCompletions) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		http.NotFound(w, r)
		return
	}

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.lastBody = body
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": f.content},
		}},
	})
}

func newTestClient(t *testing.T, f *fakeCompletions) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
		Model:   "test-model",
		Timeout: 5 * time.Second,
		Logger:  testutil.NewTestLogger(t),
	})
}

func TestAnalyze_Success(t *testing.T) {
	f := &fakeCompletions{content: "```json\n" +
		`{"summary":"Adds a filter","impact":"Fewer rows","optimizationTips":["a","b","c","d"]}` +
		"\n```"}
	c := newTestClient(t, f)

	res, err := c.Analyze(context.Background(), "SELECT a FROM t", "SELECT a FROM t WHERE b = 1")
	require.NoError(t, err)

	assert.Equal(t, "Adds a filter", res.Summary)
	assert.Equal(t, "Fewer rows", res.Impact)
	assert.Equal(t, []string{"a", "b", "c"}, res.OptimizationTips)
	assert.Equal(t, int32(1), f.calls.Load())

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "test-model", f.lastBody["model"])
	msgs, ok := f.lastBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	user, ok := msgs[1].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, user["content"], "SELECT a FROM t WHERE b = 1")
	assert.Equal(t, map[string]any{"type": "json_object"}, f.lastBody["response_format"])
}

func TestAnalyze_MissingInput(t *testing.T) {
	f := &fakeCompletions{content: "{}"}
	c := newTestClient(t, f)

	for _, pair := range [][2]string{{"", "SELECT 1"}, {"SELECT 1", "  "}, {"", ""}} {
		_, err := c.Analyze(context.Background(), pair[0], pair[1])
		assert.ErrorIs(t, err, ErrMissingInput)
	}
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestHasInput(t *testing.T) {
	assert.True(t, HasInput("SELECT 1", "SELECT 2"))
	assert.False(t, HasInput("", "SELECT 2"))
	assert.False(t, HasInput("SELECT 1", " \n\t"))
}

func TestAnalyze_MissingCredential(t *testing.T) {
	c := NewClient(Options{Model: "m"})
	_, err := c.Analyze(context.Background(), "SELECT 1", "SELECT 2")
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, "API key not found", err.Error())
}

func TestAnalyze_EmptyResponse(t *testing.T) {
	c := newTestClient(t, &fakeCompletions{content: ""})
	_, err := c.Analyze(context.Background(), "SELECT 1", "SELECT 2")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestAnalyze_APIError(t *testing.T) {
	c := newTestClient(t, &fakeCompletions{status: http.StatusUnauthorized})
	_, err := c.Analyze(context.Background(), "SELECT 1", "SELECT 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis request failed")
}

func TestAnalyze_SharesConcurrentIdenticalCalls(t *testing.T) {
	f := &fakeCompletions{
		content: `{"summary":"s","impact":"i","optimizationTips":[]}`,
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 2),
	}
	c := newTestClient(t, f)

	var wg sync.WaitGroup
	results := make([]*Result, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.Analyze(context.Background(), "SELECT 1", "SELECT 2")
		}()
		if i == 0 {
			<-f.entered
		}
	}
	time.Sleep(50 * time.Millisecond)
	close(f.gate)
	wg.Wait()

	for i := range 2 {
		require.NoError(t, errs[i])
		assert.Equal(t, "s", results[i].Summary)
	}
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestAnalyze_CallerCancel(t *testing.T) {
	f := &fakeCompletions{content: `{"summary":"s"}`, gate: make(chan struct{})}
	c := newTestClient(t, f)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Analyze(ctx, "SELECT 1", "SELECT 2")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	// The abandoned request keeps running and logs when it finishes. Join it
	// so nothing writes to the test logger after the test returns.
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, err := c.Analyze(context.Background(), "SELECT 1", "SELECT 2")
		assert.NoError(t, err)
		if res != nil {
			assert.Equal(t, "s", res.Summary)
		}
	}()
	close(f.gate)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("abandoned request never finished")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *Result
		err     error
	}{
		{
			name:    "plain json",
			content: `{"summary":"s","impact":"i","optimizationTips":["x"]}`,
			want:    &Result{Summary: "s", Impact: "i", OptimizationTips: []string{"x"}},
		},
		{
			name:    "fenced without language",
			content: "```\n{\"summary\":\"s\"}\n```",
			want:    &Result{Summary: "s"},
		},
		{
			name:    "blank",
			content: "  \n",
			err:     ErrEmptyResponse,
		},
		{
			name:    "empty object",
			content: "{}",
			err:     ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.content)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Decode("not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode analysis")
}

func TestHTML(t *testing.T) {
	out := HTML("Adds **filter** on `b`\n<script>alert(1)</script>")
	assert.Contains(t, out, "<strong>filter</strong>")
	assert.Contains(t, out, "<code>b</code>")
	assert.NotContains(t, out, "<script>")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.True(t, State{Status: Loading}.Busy())
	assert.False(t, State{Status: Error, Err: "x"}.Busy())

	b, err := json.Marshal(State{Status: Success, Result: &Result{Summary: "s"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","result":{"summary":"s","impact":"","optimizationTips":null}}`, string(b))
}

func TestPrompt(t *testing.T) {
	p := Prompt("SELECT 1", "SELECT 2")
	assert.Contains(t, p, "ORIGINAL SQL:\nSELECT 1")
	assert.Contains(t, p, "MODIFIED SQL:\nSELECT 2")
	assert.Contains(t, p, "optimizationTips")
}
