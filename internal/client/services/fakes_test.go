package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fluxapi/internal/client/client"
	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/common"
)

type fakeTransport struct {
	mu    sync.Mutex
	calls []*client.Call
	reply *client.Reply
	err   error
	block chan struct{}
}

func (f *fakeTransport) Do(ctx context.Context, call *client.Call) (*client.Reply, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, &client.TransportError{Err: ctx.Err()}
		}
	}
	return f.reply, f.err
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeStore is an in-memory RequestStore.
type fakeStore struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]models.Request
	updates []models.RequestPatch
	getErr  map[int64]error
	updErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[int64]models.Request{}, getErr: map[int64]error{}}
}

func (f *fakeStore) Create(_ context.Context, r *models.Request) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := *r
	c.ID = f.nextID
	f.rows[c.ID] = c
	return c.ID, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getErr[id]; err != nil {
		return nil, err
	}
	r, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("request %d: %w", id, common.ErrNotFound)
	}
	return &r, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, p models.RequestPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, p)
	if f.updErr != nil {
		return f.updErr
	}
	r, ok := f.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&r.Name, p.Name)
	set(&r.Method, p.Method)
	set(&r.URL, p.URL)
	set(&r.Headers, p.Headers)
	set(&r.QueryParams, p.QueryParams)
	set(&r.Auth, p.Auth)
	set(&r.Body, p.Body)
	f.rows[id] = r
	return nil
}

func (f *fakeStore) ListByCollection(_ context.Context, collectionID *int64) ([]models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Request
	for _, r := range f.rows {
		switch {
		case collectionID == nil && r.CollectionID == nil:
			out = append(out, r)
		case collectionID != nil && r.CollectionID != nil && *collectionID == *r.CollectionID:
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeStore) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeStore) row(id int64) models.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

func ptr[T any](v T) *T { return &v }
