// Package workspace owns the state of one comparison: the two documents,
// their diff, validation errors and analysis.
//
// All transitions go through a Controller, which serializes them with a
// mutex. Derived state is recomputed from the documents on every change and
// published as immutable Snapshots. Validation runs after a quiescence delay
// per document; each edit invalidates the pending run through a generation
// counter, so only the latest scheduled validation is ever applied.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/leapstack-labs/sqllens/internal/analysis"
	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/pkg/decorate"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/diff"
)

// DefaultDebounce is the quiescence delay before validation.
const DefaultDebounce = 600 * time.Millisecond

var (
	// ErrAnalysisInFlight is returned by Analyze while another call runs.
	ErrAnalysisInFlight = errors.New("analysis already in progress")
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("workspace closed")
)

// Validator checks SQL syntax.
type Validator interface {
	Validate(ctx context.Context, sql string, tag dialect.Tag) []validate.ValidationError
}

// Options configures a Controller.
type Options struct {
	Validator Validator
	Analyzer  analysis.Analyzer
	Dialect   dialect.Tag
	// Debounce is the validation delay; zero means DefaultDebounce.
	Debounce time.Duration
	HideDiff bool
	Logger   *slog.Logger
	// Notify is called, outside the lock, after every state change.
	Notify func()
}

// Controller is the single owner of a workspace's state.
type Controller struct {
	validator Validator
	analyzer  analysis.Analyzer
	debounce  time.Duration
	logger    *slog.Logger
	notify    func()

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	docs        [2]string
	tag         dialect.Tag
	showDiff    bool
	spans       []diff.Span
	highlights  [2][]decorate.HighlightRange
	errs        [2][]validate.ValidationError
	timers      [2]*time.Timer
	gens        [2]uint64
	analysis    analysis.State
	analysisGen uint64
	version     uint64
	closed      bool
}

// New creates an empty workspace.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	v := opts.Validator
	if v == nil {
		v = validate.New(logger)
	}
	debounce := opts.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	notify := opts.Notify
	if notify == nil {
		notify = func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		validator: v,
		analyzer:  opts.Analyzer,
		debounce:  debounce,
		logger:    logger,
		notify:    notify,
		ctx:       ctx,
		cancel:    cancel,
		tag:       opts.Dialect,
		showDiff:  !opts.HideDiff,
	}
}

// update runs fn under the lock and, if it reports a change, bumps the
// version and notifies subscribers.
func (c *Controller) update(fn func() bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	changed := fn()
	if changed {
		c.version++
	}
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// SetOriginal replaces the original document.
func (c *Controller) SetOriginal(sql string) {
	c.SetDocument(diff.Original, sql)
}

// SetModified replaces the modified document.
func (c *Controller) SetModified(sql string) {
	c.SetDocument(diff.Modified, sql)
}

// SetDocument replaces one document. Any analysis is reset and the side's
// validation is rescheduled.
func (c *Controller) SetDocument(side diff.Side, sql string) {
	c.update(func() bool {
		if c.docs[side] == sql {
			return false
		}
		c.docs[side] = sql
		c.resetAnalysis()
		c.recompute()
		c.schedule(side, c.debounce)
		return true
	})
}

// SetDialect switches the dialect. Pending validations are dropped and
// both documents are revalidated right away.
func (c *Controller) SetDialect(tag dialect.Tag) {
	c.update(func() bool {
		if c.tag == tag {
			return false
		}
		c.tag = tag
		c.schedule(diff.Original, 0)
		c.schedule(diff.Modified, 0)
		return true
	})
}

// SetShowDiff toggles diff highlighting. Turning it off drops the spans
// and invalidates pending validations, which are then rescheduled.
func (c *Controller) SetShowDiff(show bool) {
	c.update(func() bool {
		if c.showDiff == show {
			return false
		}
		c.showDiff = show
		c.recompute()
		if !show {
			c.schedule(diff.Original, c.debounce)
			c.schedule(diff.Modified, c.debounce)
		}
		return true
	})
}

// Clear empties both documents and drops all derived state immediately.
func (c *Controller) Clear() {
	c.update(func() bool {
		c.docs = [2]string{}
		c.resetAnalysis()
		c.recompute()
		c.schedule(diff.Original, c.debounce)
		c.schedule(diff.Modified, c.debounce)
		return true
	})
}

// Swap exchanges the two documents.
func (c *Controller) Swap() {
	c.update(func() bool {
		c.docs[0], c.docs[1] = c.docs[1], c.docs[0]
		c.errs[0], c.errs[1] = c.errs[1], c.errs[0]
		c.resetAnalysis()
		c.recompute()
		c.schedule(diff.Original, c.debounce)
		c.schedule(diff.Modified, c.debounce)
		return true
	})
}

// Analyze explains the difference between the documents. It needs both
// documents and allows one call at a time. A result that arrives after the
// documents changed is discarded.
func (c *Controller) Analyze(ctx context.Context) (*analysis.Result, error) {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return nil, ErrClosed
	case !analysis.HasInput(c.docs[0], c.docs[1]):
		c.mu.Unlock()
		return nil, analysis.ErrMissingInput
	case c.analysis.Busy():
		c.mu.Unlock()
		return nil, ErrAnalysisInFlight
	}
	c.analysisGen++
	gen := c.analysisGen
	original, modified := c.docs[0], c.docs[1]
	c.analysis = analysis.State{Status: analysis.Loading}
	c.version++
	c.mu.Unlock()
	c.notify()

	var res *analysis.Result
	var err error
	if c.analyzer == nil {
		err = analysis.ErrMissingCredential
	} else {
		res, err = c.analyzer.Analyze(ctx, original, modified)
	}

	c.update(func() bool {
		if gen != c.analysisGen {
			c.logger.Debug("discarding stale analysis")
			return false
		}
		if err != nil {
			c.analysis = analysis.State{Status: analysis.Error, Err: err.Error()}
		} else {
			c.analysis = analysis.State{Status: analysis.Success, Result: res}
		}
		return true
	})
	if err != nil {
		c.logger.Warn("analysis failed", "error", err)
	}
	return res, err
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Original:   c.docs[0],
		Modified:   c.docs[1],
		Dialect:    c.tag,
		ShowDiff:   c.showDiff,
		Spans:      c.spans,
		Highlights: c.highlights,
		Errors:     c.errs,
		Analysis:   c.analysis,
		Version:    c.version,
	}
}

// Close stops pending validations. Later operations are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for side := range c.timers {
		c.stop(diff.Side(side))
	}
	c.cancel()
}

// resetAnalysis returns analysis to Idle and orphans any in-flight call.
func (c *Controller) resetAnalysis() {
	c.analysisGen++
	c.analysis = analysis.State{}
}

// recompute rebuilds the diff from the documents. Slices are replaced,
// never mutated, so snapshots can share them.
func (c *Controller) recompute() {
	c.spans = nil
	c.highlights = [2][]decorate.HighlightRange{}
	if !c.showDiff || (c.docs[0] == "" && c.docs[1] == "") {
		return
	}
	c.spans = diff.Words(c.docs[0], c.docs[1])
	for _, side := range []diff.Side{diff.Original, diff.Modified} {
		c.highlights[side] = decorate.MapToHighlights(diff.Reconcile(c.spans, side), side)
	}
}

// stop cancels the side's pending validation.
func (c *Controller) stop(side diff.Side) {
	c.gens[side]++
	if c.timers[side] != nil {
		c.timers[side].Stop()
		c.timers[side] = nil
	}
}

// schedule replaces the side's pending validation with one that runs after
// delay. A blank document clears its errors at once.
func (c *Controller) schedule(side diff.Side, delay time.Duration) {
	c.stop(side)
	doc := c.docs[side]
	if strings.TrimSpace(doc) == "" {
		c.errs[side] = nil
		return
	}
	gen, tag := c.gens[side], c.tag
	c.timers[side] = time.AfterFunc(delay, func() {
		c.validate(side, gen, doc, tag)
	})
}

func (c *Controller) validate(side diff.Side, gen uint64, doc string, tag dialect.Tag) {
	errs := c.validator.Validate(c.ctx, doc, tag)
	c.update(func() bool {
		if gen != c.gens[side] {
			return false
		}
		c.timers[side] = nil
		c.errs[side] = errs
		return true
	})
}
