package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/dmitrijs2005/fluxapi/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO collections (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert collection: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get collection id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Collection, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM collections ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select collections: %w", err)
	}
	defer rows.Close()

	result := make([]models.Collection, 0)
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collection rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Collection, error) {
	c := &models.Collection{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM collections WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %d: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, name *string) error {
	if name == nil {
		return nil
	}
	res, err := r.db.ExecContext(ctx, `UPDATE collections SET name = ? WHERE id = ?`, *name, id)
	if err != nil {
		return fmt.Errorf("failed to update collection %d: %w", id, err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete collection %d: %w", id, err)
	}
	return dbx.ExpectAffected(res)
}
