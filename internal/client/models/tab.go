package models

import "time"

// TabType names what a tab shows.
type TabType string

const (
	TabRequest     TabType = "request"
	TabCollection  TabType = "collection"
	TabEnvironment TabType = "environment"
	TabHistory     TabType = "history"
)

// Tab is one open editor tab. Request tabs carry their Draft; collection
// tabs carry CollectionID.
type Tab struct {
	ID           string
	Title        string
	Type         TabType
	Draft        *Draft
	CollectionID *int64
	IsDirty      bool
	LastModified time.Time
}

// RequestID reports the stored request a request tab points at.
func (t Tab) RequestID() (int64, bool) {
	if t.Type != TabRequest || t.Draft == nil {
		return 0, false
	}
	return t.Draft.RequestID()
}

// Clone deep-copies the tab, including its draft.
func (t Tab) Clone() Tab {
	c := t
	if t.Draft != nil {
		d := t.Draft.Clone()
		c.Draft = &d
	}
	if t.CollectionID != nil {
		id := *t.CollectionID
		c.CollectionID = &id
	}
	return c
}
