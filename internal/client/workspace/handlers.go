package workspace

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/client/services"
	"github.com/dmitrijs2005/fluxapi/internal/common"
)

// edit applies the patch built by fn to the tab's draft, marks the tab dirty
// and schedules a save.
func (w *Workspace) edit(tabID string, fn func(d models.Draft) models.DraftPatch) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tab, ok := w.tabs.Get(tabID)
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrTabNotFound, tabID)
	}
	if tab.Type != models.TabRequest || tab.Draft == nil {
		return common.ErrNotRequestTab
	}

	var patch models.DraftPatch
	_ = w.tabs.Update(tabID, func(t *models.Tab) {
		patch = fn(*t.Draft)
		d := t.Draft.Apply(patch)
		t.Draft = &d
		t.Title = t.Draft.Name
		t.IsDirty = true
		if patch.Body != nil {
			if st := w.states[tabID]; st != nil {
				_, st.BodyErrors = services.ResolveBody(t.Draft.Body)
			}
		}
	})

	if s := w.syncers[tabID]; s != nil {
		s.Schedule(patch)
	}
	return nil
}

func (w *Workspace) OnNameChange(tabID, name string) error {
	return w.edit(tabID, func(d models.Draft) models.DraftPatch {
		return models.DraftPatch{Name: &name}
	})
}

func (w *Workspace) OnURLChange(tabID, url string) error {
	return w.edit(tabID, func(d models.Draft) models.DraftPatch {
		return models.DraftPatch{URL: &url}
	})
}

func (w *Workspace) OnMethodChange(tabID string, m models.Method) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidMethod, m)
	}
	return w.edit(tabID, func(d models.Draft) models.DraftPatch {
		return models.DraftPatch{Method: &m}
	})
}

// OnHeaderEdit sets one header, adding it when missing.
func (w *Workspace) OnHeaderEdit(tabID, key, value string) error {
	return w.editHeaders(tabID, func(h map[string]string) { h[key] = value })
}

// OnHeaderRename moves a header's value to a new key.
func (w *Workspace) OnHeaderRename(tabID, oldKey, newKey string) error {
	return w.editHeaders(tabID, func(h map[string]string) {
		v, ok := h[oldKey]
		if !ok || oldKey == newKey {
			return
		}
		delete(h, oldKey)
		h[newKey] = v
	})
}

func (w *Workspace) OnHeaderDelete(tabID, key string) error {
	return w.editHeaders(tabID, func(h map[string]string) { delete(h, key) })
}

func (w *Workspace) editHeaders(tabID string, fn func(h map[string]string)) error {
	return w.edit(tabID, func(d models.Draft) models.DraftPatch {
		h := maps.Clone(d.Headers)
		if h == nil {
			h = map[string]string{}
		}
		fn(h)
		return models.DraftPatch{Headers: h}
	})
}

func (w *Workspace) OnParamEdit(tabID, key, value string) error {
	return w.editParams(tabID, func(p map[string]string) { p[key] = value })
}

func (w *Workspace) OnParamDelete(tabID, key string) error {
	return w.editParams(tabID, func(p map[string]string) { delete(p, key) })
}

func (w *Workspace) editParams(tabID string, fn func(p map[string]string)) error {
	return w.edit(tabID, func(d models.Draft) models.DraftPatch {
		p := maps.Clone(d.QueryParams)
		if p == nil {
			p = map[string]string{}
		}
		fn(p)
		return models.DraftPatch{QueryParams: p}
	})
}

func (w *Workspace) OnAuthChange(tabID string, a models.Auth) error {
	if a == nil {
		a = models.NoAuth{}
	}
	return w.edit(tabID, func(d models.Draft) models.DraftPatch {
		return models.DraftPatch{Auth: a}
	})
}

func (w *Workspace) OnBodyChange(tabID string, b models.Body) error {
	if b == nil {
		b = models.NoBody{}
	}
	return w.edit(tabID, func(d models.Draft) models.DraftPatch {
		return models.DraftPatch{Body: b}
	})
}

// OnSend sends the tab's current draft. A draft rejected before any I/O
// produces EventValidation and returns the reason. Otherwise the outcome is
// stored on the tab, replacing whatever an earlier send left there, and
// published as EventResponse or EventError. Sends of the same tab are not
// serialized unless the sender enforces it; the one that finishes last wins.
func (w *Workspace) OnSend(ctx context.Context, tabID string) (models.Outcome, error) {
	tab, ok := w.Tab(tabID)
	if !ok {
		return models.Outcome{}, fmt.Errorf("%w: %s", common.ErrTabNotFound, tabID)
	}
	if tab.Type != models.TabRequest || tab.Draft == nil {
		return models.Outcome{}, common.ErrNotRequestTab
	}
	draft := *tab.Draft

	if strings.TrimSpace(draft.URL) == "" {
		w.emit(Event{Kind: EventValidation, TabID: tabID, Err: common.ErrEmptyURL, Message: "Please enter a URL"})
		return models.Outcome{}, common.ErrEmptyURL
	}

	w.setLoading(tabID, +1)
	w.emit(Event{Kind: EventLoading, TabID: tabID})

	out, err := w.deps.Sender.Send(ctx, draft)
	if err != nil {
		w.setLoading(tabID, -1)
		msg := err.Error()
		if errors.Is(err, common.ErrSendInFlight) {
			msg = "A request is already being sent"
		}
		w.emit(Event{Kind: EventValidation, TabID: tabID, Err: err, Message: msg})
		return models.Outcome{}, err
	}

	w.mu.Lock()
	if st := w.states[tabID]; st != nil {
		o := out
		st.Outcome = &o
		st.inflight--
		st.Loading = st.inflight > 0
	}
	w.mu.Unlock()

	if out.Failed() {
		w.emit(Event{Kind: EventError, TabID: tabID, Outcome: &out, Message: out.Err})
		return out, nil
	}

	if w.deps.History != nil {
		rid := draft.ID
		if err := w.deps.History.Record(ctx, rid, out.Response); err != nil {
			w.log.Warn(ctx, "failed to record history", "tab_id", tabID, "err", err)
		}
	}
	w.emit(Event{Kind: EventResponse, TabID: tabID, Outcome: &out})
	return out, nil
}

func (w *Workspace) setLoading(tabID string, delta int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.states[tabID]
	if st == nil {
		return
	}
	st.inflight += delta
	st.Loading = st.inflight > 0
}
