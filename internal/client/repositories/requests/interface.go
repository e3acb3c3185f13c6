package requests

import (
	"context"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
)

// Repository describes CRUD operations for stored requests.
type Repository interface {
	// Create inserts r and returns the new id. r.ID is ignored.
	Create(ctx context.Context, r *models.Request) (int64, error)

	// ListByCollection returns the requests of a collection, oldest first.
	// A nil collectionID lists requests that belong to no collection.
	ListByCollection(ctx context.Context, collectionID *int64) ([]models.Request, error)

	// GetByID returns common.ErrNotFound when no row has the id.
	GetByID(ctx context.Context, id int64) (*models.Request, error)

	// Update writes the non-nil fields of p. An empty patch is a no-op;
	// common.ErrNotFound is returned when the row does not exist.
	Update(ctx context.Context, id int64, p models.RequestPatch) error

	// Delete removes a request; common.ErrNotFound when it does not exist.
	Delete(ctx context.Context, id int64) error

	// DeleteByCollection removes every request of a collection and reports
	// how many were removed.
	DeleteByCollection(ctx context.Context, collectionID int64) (int64, error)
}
