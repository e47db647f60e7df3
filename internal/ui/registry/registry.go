// Package registry keeps one workspace per browser session.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/sqllens/internal/ui/notifier"
	"github.com/leapstack-labs/sqllens/internal/workspace"
)

// Factory builds a controller that calls notify after each change.
type Factory func(notify func()) *workspace.Controller

// Entry is a live workspace and the SSE streams watching it.
type Entry struct {
	ID         string
	Controller *workspace.Controller
	Notifier   *notifier.Notifier

	lastSeen time.Time
}

// Registry maps session workspace ids to entries. Entries idle longer than
// the timeout, with no open stream, are closed and dropped.
type Registry struct {
	factory Factory
	idle    time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*Entry
}

// New creates a registry. An idle timeout of zero keeps entries forever.
func New(factory Factory, idle time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		factory: factory,
		idle:    idle,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*Entry),
	}
}

// Get returns the entry for id, creating it on first use.
func (r *Registry) Get(id string) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.now()
		return e
	}

	n := notifier.New()
	e := &Entry{
		ID:         id,
		Controller: r.factory(n.Broadcast),
		Notifier:   n,
		lastSeen:   r.now(),
	}
	r.entries[id] = e
	r.logger.Debug("workspace created", "id", id)
	return e
}

// Lookup returns the entry for id without creating it.
func (r *Registry) Lookup(id string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if ok {
		e.lastSeen = r.now()
	}
	return e, ok
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict drops idle entries and returns how many were removed.
func (r *Registry) Evict() int {
	if r.idle <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idle)
	n := 0
	for id, e := range r.entries {
		if e.Notifier.Len() > 0 || e.lastSeen.After(cutoff) {
			continue
		}
		e.Controller.Close()
		delete(r.entries, id)
		n++
	}
	if n > 0 {
		r.logger.Debug("evicted idle workspaces", "count", n, "remaining", len(r.entries))
	}
	return n
}

// Run evicts idle entries periodically until ctx is done, then closes
// every workspace.
func (r *Registry) Run(ctx context.Context) error {
	defer r.Close()
	if r.idle <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(max(r.idle/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Evict()
		}
	}
}

// Close closes and drops every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		e.Controller.Close()
		delete(r.entries, id)
	}
}
