package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fluxapi/internal/client/client"
	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/dmitrijs2005/fluxapi/internal/dbx"
)

// CollectionService manages collections and the requests inside them.
type CollectionService interface {
	Create(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]models.Collection, error)
	Rename(ctx context.Context, id int64, name string) error
	// Delete removes the collection together with its requests.
	Delete(ctx context.Context, id int64) error
	// Requests lists the requests of a collection; nil means loose requests.
	Requests(ctx context.Context, collectionID *int64) ([]models.Request, error)
}

type collectionService struct {
	db    *sql.DB
	repos *client.Repositories
}

func NewCollectionService(db *sql.DB) CollectionService {
	return &collectionService{db: db, repos: client.NewRepositories(db)}
}

func (s *collectionService) Create(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, common.ErrEmptyName
	}
	return s.repos.Collections.Create(ctx, name)
}

func (s *collectionService) List(ctx context.Context) ([]models.Collection, error) {
	return s.repos.Collections.List(ctx)
}

func (s *collectionService) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.ErrEmptyName
	}
	if _, err := s.repos.Collections.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repos.Collections.Update(ctx, id, &name)
}

func (s *collectionService) Delete(ctx context.Context, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repos := client.NewRepositories(tx)
		if _, err := repos.Requests.DeleteByCollection(ctx, id); err != nil {
			return err
		}
		if err := repos.Collections.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete collection %d: %w", id, err)
		}
		return nil
	})
}

func (s *collectionService) Requests(ctx context.Context, collectionID *int64) ([]models.Request, error) {
	return s.repos.Requests.ListByCollection(ctx, collectionID)
}
