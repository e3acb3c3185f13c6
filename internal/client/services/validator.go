package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/dmitrijs2005/fluxapi/internal/logging"
	"golang.org/x/sync/errgroup"
)

const validateConcurrency = 8

// Validator finds request tabs whose stored request no longer exists.
type Validator struct {
	store RequestGetter
	log   logging.Logger
}

func NewValidator(store RequestGetter, log logging.Logger) *Validator {
	return &Validator{store: store, log: log}
}

// Stale returns, in tab order, the ids of request tabs whose record lookup
// answered not-found. Any other lookup error keeps the tab. Tabs without a
// stored request and non-request tabs are never stale.
func (v *Validator) Stale(ctx context.Context, tabs []models.Tab) []string {
	missing := make([]bool, len(tabs))

	var g errgroup.Group
	g.SetLimit(validateConcurrency)

	for i, t := range tabs {
		id, ok := t.RequestID()
		if !ok {
			continue
		}
		g.Go(func() error {
			_, err := v.store.GetByID(ctx, id)
			switch {
			case err == nil:
			case errors.Is(err, common.ErrNotFound):
				missing[i] = true
			default:
				v.log.Warn(ctx, "tab validation lookup failed, keeping tab",
					"tab_id", t.ID, "request_id", id, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var stale []string
	for i, t := range tabs {
		if missing[i] {
			stale = append(stale, t.ID)
		}
	}
	return stale
}
