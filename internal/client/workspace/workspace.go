package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/client/services"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/dmitrijs2005/fluxapi/internal/logging"
)

// Sender performs one send of a draft.
type Sender interface {
	Send(ctx context.Context, draft models.Draft) (models.Outcome, error)
}

// Deps are the collaborators of a Workspace. History and Session may be nil.
type Deps struct {
	Requests     services.RequestStore
	History      services.HistoryService
	Session      services.SessionStore
	Sender       Sender
	Validator    *services.Validator
	SaveDebounce time.Duration
	Log          logging.Logger
}

type Workspace struct {
	deps Deps
	log  logging.Logger

	mu        sync.Mutex
	tabs      *services.TabSet
	states    map[string]*TabState
	syncers   map[string]*services.Syncer
	observers []func(Event)
}

func New(deps Deps) *Workspace {
	log := deps.Log
	if log == nil {
		log = logging.Nop()
	}
	if deps.Validator == nil {
		deps.Validator = services.NewValidator(deps.Requests, log)
	}
	return &Workspace{
		deps:    deps,
		log:     log,
		tabs:    services.NewTabSet(),
		states:  make(map[string]*TabState),
		syncers: make(map[string]*services.Syncer),
	}
}

// Subscribe registers fn for every future event.
func (w *Workspace) Subscribe(fn func(Event)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.observers = append(w.observers, fn)
}

func (w *Workspace) emit(e Event) {
	w.mu.Lock()
	obs := make([]func(Event), len(w.observers))
	copy(obs, w.observers)
	w.mu.Unlock()

	for _, fn := range obs {
		fn(e)
	}
}

func (w *Workspace) Tabs() []models.Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tabs.Tabs()
}

func (w *Workspace) ActiveTab() (models.Tab, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tabs.Active()
}

func (w *Workspace) Tab(id string) (models.Tab, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tabs.Get(id)
}

// State returns a copy of the tab's view state.
func (w *Workspace) State(tabID string) TabState {
	w.mu.Lock()
	defer w.mu.Unlock()
	if st, ok := w.states[tabID]; ok {
		return *st
	}
	return TabState{}
}

func (w *Workspace) Activate(tabID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tabs.SetActive(tabID)
}

// Reorder moves a tab within the tab strip.
func (w *Workspace) Reorder(from, to int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tabs.Reorder(from, to)
}

// NewRequest stores a fresh request and opens it in a new active tab.
func (w *Workspace) NewRequest(ctx context.Context, collectionID *int64) (models.Tab, error) {
	r := models.NewRequest(collectionID)
	id, err := w.deps.Requests.Create(ctx, r)
	if err != nil {
		return models.Tab{}, fmt.Errorf("failed to create request: %w", err)
	}
	r.ID = id

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.openLocked(models.LoadDraft(r)), nil
}

// OpenRequest activates the tab already editing the request or opens a new
// one from storage.
func (w *Workspace) OpenRequest(ctx context.Context, requestID int64) (models.Tab, error) {
	w.mu.Lock()
	if t, ok := w.tabs.FindByRequestID(requestID); ok {
		_ = w.tabs.SetActive(t.ID)
		w.mu.Unlock()
		return t, nil
	}
	w.mu.Unlock()

	r, err := w.deps.Requests.GetByID(ctx, requestID)
	if err != nil {
		return models.Tab{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// another caller may have opened it while we were reading
	if t, ok := w.tabs.FindByRequestID(requestID); ok {
		_ = w.tabs.SetActive(t.ID)
		return t, nil
	}
	return w.openLocked(models.LoadDraft(r)), nil
}

// OpenTab opens a tab that has no draft, such as a collection or history
// view.
func (w *Workspace) OpenTab(title string, tt models.TabType, collectionID *int64) (models.Tab, error) {
	if tt == models.TabRequest {
		return models.Tab{}, errors.New("request tabs are opened with OpenRequest")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	t := w.tabs.Add(models.Tab{Title: title, Type: tt, CollectionID: collectionID})
	w.states[t.ID] = &TabState{}
	return t, nil
}

func (w *Workspace) openLocked(d models.Draft) models.Tab {
	t := w.tabs.Add(models.Tab{Title: d.Name, Type: models.TabRequest, Draft: &d})
	w.attachLocked(t)
	return t
}

// attachLocked sets up view state and the saver of a request tab.
func (w *Workspace) attachLocked(t models.Tab) {
	st := &TabState{}
	if t.Draft != nil {
		_, st.BodyErrors = services.ResolveBody(t.Draft.Body)
	}
	w.states[t.ID] = st

	if t.Type != models.TabRequest || t.Draft == nil {
		return
	}
	if _, ok := t.Draft.RequestID(); !ok {
		return
	}
	w.syncers[t.ID] = w.newSyncer(t.ID)
}

func (w *Workspace) newSyncer(tabID string) *services.Syncer {
	var s *services.Syncer
	source := func() (models.Draft, bool) {
		w.mu.Lock()
		defer w.mu.Unlock()
		t, ok := w.tabs.Get(tabID)
		if !ok || t.Draft == nil {
			return models.Draft{}, false
		}
		return *t.Draft, true
	}
	hooks := services.SyncHooks{
		OnSaved: func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if s.Pending() {
				return
			}
			_ = w.tabs.Update(tabID, func(t *models.Tab) { t.IsDirty = false })
		},
		OnError: func(err error) {
			w.emit(Event{Kind: EventSaveFailed, TabID: tabID, Err: err, Message: err.Error()})
		},
	}
	s = services.NewSyncer(w.deps.Requests, source, w.deps.SaveDebounce, w.log.With("tab_id", tabID), hooks)
	return s
}

// CloseTab writes any pending edit of the tab and closes it. A failed final
// save is reported through EventSaveFailed and does not keep the tab open.
func (w *Workspace) CloseTab(ctx context.Context, tabID string) error {
	w.mu.Lock()
	if w.tabs.Index(tabID) < 0 {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", common.ErrTabNotFound, tabID)
	}
	s := w.syncers[tabID]
	w.mu.Unlock()

	if s != nil {
		_ = s.Flush(ctx)
		s.Stop()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.tabs.Remove(tabID)
	delete(w.syncers, tabID)
	delete(w.states, tabID)
	return nil
}

// CloseOthers closes every tab except tabID, which becomes active. Pending
// edits of the closed tabs are written first.
func (w *Workspace) CloseOthers(ctx context.Context, tabID string) error {
	w.mu.Lock()
	if w.tabs.Index(tabID) < 0 {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", common.ErrTabNotFound, tabID)
	}
	var ids []string
	for _, t := range w.tabs.Tabs() {
		if t.ID != tabID {
			ids = append(ids, t.ID)
		}
	}
	w.mu.Unlock()

	w.flushAndStop(ctx, ids)

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range ids {
		delete(w.syncers, id)
		delete(w.states, id)
	}
	return w.tabs.CloseOthers(tabID)
}

// CloseAll writes pending edits, closes every tab and saves the now empty
// session.
func (w *Workspace) CloseAll(ctx context.Context) error {
	w.mu.Lock()
	var ids []string
	for _, t := range w.tabs.Tabs() {
		ids = append(ids, t.ID)
	}
	w.mu.Unlock()

	w.flushAndStop(ctx, ids)

	w.mu.Lock()
	w.tabs.CloseAll()
	w.syncers = make(map[string]*services.Syncer)
	w.states = make(map[string]*TabState)
	w.mu.Unlock()

	return w.SaveSession(ctx)
}

// ResetSession closes every tab and forgets all stored session state.
func (w *Workspace) ResetSession(ctx context.Context) error {
	if err := w.CloseAll(ctx); err != nil {
		return err
	}
	if w.deps.Session == nil {
		return nil
	}
	return w.deps.Session.Clear(ctx)
}

// flushAndStop writes and stops the syncers of ids. Failed writes are
// reported through EventSaveFailed.
func (w *Workspace) flushAndStop(ctx context.Context, ids []string) {
	w.mu.Lock()
	syncers := make([]*services.Syncer, 0, len(ids))
	for _, id := range ids {
		if s := w.syncers[id]; s != nil {
			syncers = append(syncers, s)
		}
	}
	w.mu.Unlock()

	for _, s := range syncers {
		_ = s.Flush(ctx)
		s.Stop()
	}
}

// DuplicateTab stores a copy of the tab's request and opens it right after
// the original.
func (w *Workspace) DuplicateTab(ctx context.Context, tabID string) (models.Tab, error) {
	w.mu.Lock()
	src, ok := w.tabs.Get(tabID)
	w.mu.Unlock()
	if !ok {
		return models.Tab{}, fmt.Errorf("%w: %s", common.ErrTabNotFound, tabID)
	}
	if src.Type != models.TabRequest || src.Draft == nil {
		return models.Tab{}, common.ErrNotRequestTab
	}

	r := src.Draft.Persistable()
	r.Name += " (Copy)"
	id, err := w.deps.Requests.Create(ctx, &r)
	if err != nil {
		return models.Tab{}, fmt.Errorf("failed to duplicate request: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tabs.Index(tabID) < 0 {
		r.ID = id
		return w.openLocked(models.LoadDraft(&r)), nil
	}
	c, err := w.tabs.Duplicate(tabID)
	if err != nil {
		return models.Tab{}, err
	}
	_ = w.tabs.Update(c.ID, func(t *models.Tab) {
		t.Draft.ID = &id
		t.Draft.Name = r.Name
		t.Title = r.Name
	})
	c, _ = w.tabs.Get(c.ID)
	w.attachLocked(c)
	return c, nil
}

// Reload replaces the listed facets of the tab's draft with what storage
// holds now; with no facets every facet is replaced. Pending edits to other
// facets are kept.
func (w *Workspace) Reload(ctx context.Context, tabID string, facets ...models.Facet) error {
	tab, ok := w.Tab(tabID)
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrTabNotFound, tabID)
	}
	id, ok := tab.RequestID()
	if !ok {
		return common.ErrNotRequestTab
	}

	r, err := w.deps.Requests.GetByID(ctx, id)
	if err != nil {
		return err
	}
	stored := models.LoadDraft(r)
	if len(facets) == 0 {
		facets = models.AllFacets
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if s := w.syncers[tabID]; s != nil {
		s.Forget(facets...)
	}
	return w.tabs.Update(tabID, func(t *models.Tab) {
		if t.Draft == nil {
			return
		}
		d := t.Draft.ReplaceFacets(stored, facets...)
		t.Draft = &d
		t.Title = d.Name
		if st := w.states[tabID]; st != nil {
			_, st.BodyErrors = services.ResolveBody(d.Body)
		}
	})
}

// ValidateTabs closes request tabs whose stored request has been deleted.
func (w *Workspace) ValidateTabs(ctx context.Context) []string {
	w.mu.Lock()
	tabs := w.tabs.ByType(models.TabRequest)
	w.mu.Unlock()
	stale := w.deps.Validator.Stale(ctx, tabs)
	if len(stale) == 0 {
		return nil
	}

	w.mu.Lock()
	removed := w.tabs.Evict(stale)
	for _, id := range removed {
		if s := w.syncers[id]; s != nil {
			s.Stop()
		}
		delete(w.syncers, id)
		delete(w.states, id)
	}
	w.mu.Unlock()

	if len(removed) > 0 {
		w.log.Info(ctx, "closed tabs of deleted requests", "tabs", removed)
		w.emit(Event{Kind: EventTabsEvicted, TabIDs: removed})
	}
	return removed
}

// WatchTabs validates the tabs every interval until ctx is done.
func (w *Workspace) WatchTabs(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.ValidateTabs(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// SaveSession stores the open tabs.
func (w *Workspace) SaveSession(ctx context.Context) error {
	if w.deps.Session == nil {
		return nil
	}
	w.mu.Lock()
	tabs, active := w.tabs.Tabs(), w.tabs.ActiveID()
	w.mu.Unlock()
	return w.deps.Session.Save(ctx, tabs, active)
}

// RestoreSession replaces the open tabs with the saved session and then
// drops tabs whose request has been deleted since.
func (w *Workspace) RestoreSession(ctx context.Context) error {
	if w.deps.Session == nil {
		return nil
	}
	tabs, active, err := w.deps.Session.Load(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	for _, s := range w.syncers {
		s.Stop()
	}
	w.syncers = make(map[string]*services.Syncer)
	w.states = make(map[string]*TabState)
	w.tabs.Restore(tabs, active)
	for _, t := range w.tabs.Tabs() {
		w.attachLocked(t)
	}
	w.mu.Unlock()

	w.ValidateTabs(ctx)
	return nil
}

// Shutdown writes every pending edit and saves the session.
func (w *Workspace) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	syncers := make([]*services.Syncer, 0, len(w.syncers))
	for _, s := range w.syncers {
		syncers = append(syncers, s)
	}
	w.mu.Unlock()

	var errs []error
	for _, s := range syncers {
		if err := s.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
		s.Stop()
	}
	if err := w.SaveSession(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to save session: %w", err))
	}
	return errors.Join(errs...)
}
