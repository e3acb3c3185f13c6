package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/dmitrijs2005/fluxapi/internal/logging"
)

// DraftSource returns the current in-memory draft. ok is false once the
// draft is gone (tab closed or evicted).
type DraftSource func() (d models.Draft, ok bool)

// SyncHooks are optional callbacks of a Syncer. They run on the goroutine
// that performed the save and must not call back into the Syncer's Flush.
type SyncHooks struct {
	OnSaved func()
	OnError func(err error)
}

// Syncer debounces writes of one draft. Every Schedule restarts the quiet
// period; when it elapses, or when Flush is called, the draft as returned by
// the source at that moment is written in full. The draft already holds
// every edit, so the pending partial updates only mark it as dirty. A failed write is
// logged and reported through OnError; the in-memory draft is never rolled
// back.
type Syncer struct {
	store  RequestUpdater
	source DraftSource
	window time.Duration
	log    logging.Logger
	hooks  SyncHooks

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending models.DraftPatch
	dirty   bool
	stopped bool

	// saveMu keeps at most one write in flight.
	saveMu sync.Mutex
}

// NewSyncer builds a Syncer. A non-positive window means
// common.DefaultSaveDebounce.
func NewSyncer(store RequestUpdater, source DraftSource, window time.Duration, log logging.Logger, hooks SyncHooks) *Syncer {
	if window <= 0 {
		window = common.DefaultSaveDebounce
	}
	return &Syncer{store: store, source: source, window: window, log: log, hooks: hooks}
}

// Schedule records a partial update and restarts the quiet period.
func (s *Syncer) Schedule(p models.DraftPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.pending = s.pending.Merge(p)
	s.dirty = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.window, func() { s.fire(gen) })
}

// Pending reports whether an update is waiting for the quiet period.
func (s *Syncer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// fire runs when a quiet period elapses. A timer superseded by a later
// Schedule does nothing.
func (s *Syncer) fire(gen uint64) {
	s.mu.Lock()
	current := gen == s.gen
	s.mu.Unlock()
	if !current {
		return
	}
	_ = s.Flush(context.Background())
}

// Flush writes the pending update now and cancels the timer. It is the
// single save path used both by the timer and by callers closing a draft.
// With nothing pending it returns nil without touching storage.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	s.pending = models.DraftPatch{}
	s.dirty = false
	s.mu.Unlock()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	d, ok := s.source()
	if !ok {
		s.log.Debug(ctx, "draft gone before save, dropping update")
		return nil
	}

	id, ok := d.RequestID()
	if !ok {
		return s.fail(ctx, common.ErrNotPersisted, 0)
	}

	if err := s.store.Update(ctx, id, d.Persistable().Patch()); err != nil {
		return s.fail(ctx, err, id)
	}

	s.log.Debug(ctx, "draft saved", "request_id", id)
	if s.hooks.OnSaved != nil {
		s.hooks.OnSaved()
	}
	return nil
}

func (s *Syncer) fail(ctx context.Context, err error, id int64) error {
	s.log.Warn(ctx, "failed to save draft", "request_id", id, "err", err)
	if s.hooks.OnError != nil {
		s.hooks.OnError(err)
	}
	return err
}

// Forget drops the listed facets from the pending update. The next save
// still writes the whole draft as the source returns it.
func (s *Syncer) Forget(facets ...models.Facet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = s.pending.Without(facets...)
}

// Stop cancels any pending save without writing it. Later Schedule calls
// are ignored.
func (s *Syncer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = models.DraftPatch{}
	s.dirty = false
	s.stopped = true
}
