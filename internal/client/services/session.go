package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/client/repositories/metadata"
)

const sessionKey = "session.tabs"

// SessionStore keeps the open tabs between runs.
type SessionStore interface {
	// Save with no tabs removes the saved session.
	Save(ctx context.Context, tabs []models.Tab, activeID string) error
	// Load returns no tabs and an empty id when nothing was saved.
	Load(ctx context.Context) ([]models.Tab, string, error)
	// Clear drops the saved session together with any other stored UI state.
	Clear(ctx context.Context) error
}

type sessionJSON struct {
	ActiveID string    `json:"activeTabId"`
	Tabs     []tabJSON `json:"tabs"`
}

type tabJSON struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Type         models.TabType `json:"type"`
	Request      *requestJSON   `json:"request,omitempty"`
	CollectionID *int64         `json:"collectionId,omitempty"`
	IsDirty      bool           `json:"isDirty"`
	LastModified time.Time      `json:"lastModified"`
}

// requestJSON is a draft in its stored string form.
type requestJSON struct {
	ID           int64  `json:"id,omitempty"`
	CollectionID *int64 `json:"collectionId,omitempty"`
	Name         string `json:"name"`
	Method       string `json:"method"`
	URL          string `json:"url"`
	Headers      string `json:"headers"`
	QueryParams  string `json:"queryParams"`
	Auth         string `json:"auth"`
	Body         string `json:"body"`
}

type metadataSessionStore struct {
	repo metadata.Repository
}

// NewSessionStore keeps the session as JSON in the metadata table.
func NewSessionStore(repo metadata.Repository) SessionStore {
	return &metadataSessionStore{repo: repo}
}

func (s *metadataSessionStore) Save(ctx context.Context, tabs []models.Tab, activeID string) error {
	if len(tabs) == 0 {
		return s.repo.Delete(ctx, sessionKey)
	}
	doc := sessionJSON{ActiveID: activeID, Tabs: make([]tabJSON, 0, len(tabs))}
	for _, t := range tabs {
		tj := tabJSON{
			ID:           t.ID,
			Title:        t.Title,
			Type:         t.Type,
			CollectionID: t.CollectionID,
			IsDirty:      t.IsDirty,
			LastModified: t.LastModified,
		}
		if t.Draft != nil {
			r := t.Draft.Persistable()
			tj.Request = &requestJSON{
				ID:           r.ID,
				CollectionID: r.CollectionID,
				Name:         r.Name,
				Method:       r.Method,
				URL:          r.URL,
				Headers:      r.Headers,
				QueryParams:  r.QueryParams,
				Auth:         r.Auth,
				Body:         r.Body,
			}
		}
		doc.Tabs = append(doc.Tabs, tj)
	}
	return metadata.SetJSON(ctx, s.repo, sessionKey, doc)
}

func (s *metadataSessionStore) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

func (s *metadataSessionStore) Load(ctx context.Context) ([]models.Tab, string, error) {
	var doc sessionJSON
	found, err := metadata.GetJSON(ctx, s.repo, sessionKey, &doc)
	if err != nil || !found {
		return nil, "", err
	}

	tabs := make([]models.Tab, 0, len(doc.Tabs))
	for _, tj := range doc.Tabs {
		if tj.ID == "" {
			continue
		}
		t := models.Tab{
			ID:           tj.ID,
			Title:        tj.Title,
			Type:         tj.Type,
			CollectionID: tj.CollectionID,
			IsDirty:      tj.IsDirty,
			LastModified: tj.LastModified,
		}
		if rj := tj.Request; rj != nil {
			d := models.LoadDraft(&models.Request{
				ID:           rj.ID,
				CollectionID: rj.CollectionID,
				Name:         rj.Name,
				Method:       rj.Method,
				URL:          rj.URL,
				Headers:      rj.Headers,
				QueryParams:  rj.QueryParams,
				Auth:         rj.Auth,
				Body:         rj.Body,
			})
			t.Draft = &d
		}
		tabs = append(tabs, t)
	}
	return tabs, doc.ActiveID, nil
}
