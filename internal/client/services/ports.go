package services

import (
	"context"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
)

// RequestGetter reads a stored request. Implementations return
// common.ErrNotFound, possibly wrapped, when the record does not exist.
type RequestGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Request, error)
}

// RequestUpdater applies a partial update to a stored request.
type RequestUpdater interface {
	Update(ctx context.Context, id int64, p models.RequestPatch) error
}

// RequestStore is the persistence collaborator for requests.
type RequestStore interface {
	RequestGetter
	RequestUpdater
	Create(ctx context.Context, r *models.Request) (int64, error)
	ListByCollection(ctx context.Context, collectionID *int64) ([]models.Request, error)
	Delete(ctx context.Context, id int64) error
}
