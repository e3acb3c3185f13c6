package services

import (
	"context"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/client/repositories/history"
)

// HistoryService records completed sends.
type HistoryService interface {
	Record(ctx context.Context, requestID *int64, resp *models.Response) error
	List(ctx context.Context, requestID int64, limit int) ([]models.HistoryEntry, error)
}

type historyService struct {
	repo history.Repository
}

func NewHistoryService(repo history.Repository) HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) Record(ctx context.Context, requestID *int64, resp *models.Response) error {
	if resp == nil {
		return nil
	}
	_, err := s.repo.Insert(ctx, &models.HistoryEntry{
		RequestID:    requestID,
		StatusCode:   resp.Status,
		ResponseTime: resp.ResponseTime,
		ResponseBody: resp.Data,
	})
	return err
}

func (s *historyService) List(ctx context.Context, requestID int64, limit int) ([]models.HistoryEntry, error) {
	return s.repo.ListByRequest(ctx, requestID, limit)
}
