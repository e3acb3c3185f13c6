package history

import (
	"context"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
)

type Repository interface {
	// Insert appends an entry and returns its id.
	Insert(ctx context.Context, e *models.HistoryEntry) (int64, error)

	// ListByRequest returns up to limit entries for a request, newest first.
	ListByRequest(ctx context.Context, requestID int64, limit int) ([]models.HistoryEntry, error)
}
