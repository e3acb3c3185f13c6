package collections

import (
	"context"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
)

// Repository describes CRUD operations for collections.
type Repository interface {
	// Create inserts a collection and returns its id.
	Create(ctx context.Context, name string) (int64, error)

	// List returns all collections, oldest first.
	List(ctx context.Context) ([]models.Collection, error)

	// GetByID returns common.ErrNotFound when the collection is missing.
	GetByID(ctx context.Context, id int64) (*models.Collection, error)

	// Update changes the provided fields; a call with nothing to change is a no-op.
	Update(ctx context.Context, id int64, name *string) error

	// Delete removes the collection; common.ErrNotFound when it does not exist.
	Delete(ctx context.Context, id int64) error
}
