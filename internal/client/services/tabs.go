package services

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/google/uuid"
)

// TabSet is the ordered list of open tabs and the active tab id. It is not
// safe for concurrent use; the workspace serializes access.
//
// Whenever the active tab disappears the tab now at its old index becomes
// active, or the last tab if that index is past the end.
type TabSet struct {
	tabs     []models.Tab
	activeID string
	now      func() time.Time
}

func NewTabSet() *TabSet {
	return &TabSet{now: time.Now}
}

func newTabID() string {
	return "tab-" + uuid.NewString()
}

// Tabs returns deep copies of the tabs in display order.
func (s *TabSet) Tabs() []models.Tab {
	out := make([]models.Tab, len(s.tabs))
	for i, t := range s.tabs {
		out[i] = t.Clone()
	}
	return out
}

func (s *TabSet) Len() int { return len(s.tabs) }

func (s *TabSet) ActiveID() string { return s.activeID }

func (s *TabSet) Active() (models.Tab, bool) {
	return s.Get(s.activeID)
}

func (s *TabSet) Get(id string) (models.Tab, bool) {
	if i := s.Index(id); i >= 0 {
		return s.tabs[i].Clone(), true
	}
	return models.Tab{}, false
}

// Index returns the position of the tab, or -1.
func (s *TabSet) Index(id string) int {
	for i, t := range s.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a tab and makes it active. An empty ID is generated.
func (s *TabSet) Add(t models.Tab) models.Tab {
	if t.ID == "" {
		t.ID = newTabID()
	}
	t.LastModified = s.now()
	s.tabs = append(s.tabs, t.Clone())
	s.activeID = t.ID
	return t
}

// Update mutates the tab in place and bumps LastModified.
func (s *TabSet) Update(id string, fn func(t *models.Tab)) error {
	i := s.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", common.ErrTabNotFound, id)
	}
	fn(&s.tabs[i])
	s.tabs[i].LastModified = s.now()
	return nil
}

func (s *TabSet) SetActive(id string) error {
	if s.Index(id) < 0 {
		return fmt.Errorf("%w: %s", common.ErrTabNotFound, id)
	}
	s.activeID = id
	return nil
}

// Remove closes one tab and reports whether it existed.
func (s *TabSet) Remove(id string) bool {
	return len(s.Evict([]string{id})) == 1
}

func (s *TabSet) CloseAll() {
	s.tabs = nil
	s.activeID = ""
}

// CloseOthers keeps only id, which becomes active.
func (s *TabSet) CloseOthers(id string) error {
	i := s.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", common.ErrTabNotFound, id)
	}
	s.tabs = []models.Tab{s.tabs[i]}
	s.activeID = id
	return nil
}

// Duplicate inserts a clean copy right after the source tab and activates
// it. The copy's title gets a " (Copy)" suffix.
func (s *TabSet) Duplicate(id string) (models.Tab, error) {
	i := s.Index(id)
	if i < 0 {
		return models.Tab{}, fmt.Errorf("%w: %s", common.ErrTabNotFound, id)
	}
	c := s.tabs[i].Clone()
	c.ID = newTabID()
	c.Title += " (Copy)"
	c.IsDirty = false
	c.LastModified = s.now()

	s.tabs = append(s.tabs[:i+1], append([]models.Tab{c}, s.tabs[i+1:]...)...)
	s.activeID = c.ID
	return c.Clone(), nil
}

// Reorder moves the tab at from to position to.
func (s *TabSet) Reorder(from, to int) error {
	if from < 0 || from >= len(s.tabs) || to < 0 || to >= len(s.tabs) {
		return fmt.Errorf("reorder %d -> %d: index out of range", from, to)
	}
	t := s.tabs[from]
	s.tabs = append(s.tabs[:from], s.tabs[from+1:]...)
	s.tabs = append(s.tabs[:to], append([]models.Tab{t}, s.tabs[to:]...)...)
	return nil
}

func (s *TabSet) ByType(tt models.TabType) []models.Tab {
	var out []models.Tab
	for _, t := range s.tabs {
		if t.Type == tt {
			out = append(out, t.Clone())
		}
	}
	return out
}

// FindByRequestID returns the request tab editing the stored request id.
func (s *TabSet) FindByRequestID(id int64) (models.Tab, bool) {
	for _, t := range s.tabs {
		if rid, ok := t.RequestID(); ok && rid == id {
			return t.Clone(), true
		}
	}
	return models.Tab{}, false
}

// Evict removes the listed tabs and returns the ids actually removed, in
// tab order. Unknown ids are ignored, so repeating an eviction is a no-op.
func (s *TabSet) Evict(ids []string) []string {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	activeIdx := s.Index(s.activeID)
	kept := make([]models.Tab, 0, len(s.tabs))
	var removed []string
	activeRemoved := false
	for _, t := range s.tabs {
		if _, ok := drop[t.ID]; ok {
			removed = append(removed, t.ID)
			if t.ID == s.activeID {
				activeRemoved = true
			}
			continue
		}
		kept = append(kept, t)
	}
	s.tabs = kept

	if activeRemoved {
		switch {
		case len(kept) == 0:
			s.activeID = ""
		case activeIdx < len(kept):
			s.activeID = kept[activeIdx].ID
		default:
			s.activeID = kept[len(kept)-1].ID
		}
	}
	return removed
}

// Restore replaces the whole set, e.g. from a saved session. An active id
// that is not among tabs falls back to the first tab.
func (s *TabSet) Restore(tabs []models.Tab, activeID string) {
	s.tabs = make([]models.Tab, len(tabs))
	for i, t := range tabs {
		s.tabs[i] = t.Clone()
	}
	s.activeID = ""
	if s.Index(activeID) >= 0 {
		s.activeID = activeID
	} else if len(s.tabs) > 0 {
		s.activeID = s.tabs[0].ID
	}
}
