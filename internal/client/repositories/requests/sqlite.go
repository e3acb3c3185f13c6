package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/dmitrijs2005/fluxapi/internal/dbx"
)

const selectColumns = `id, collection_id, name, method, url, headers, query_params, auth, body, created_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(s scanner) (*models.Request, error) {
	var (
		r                                       models.Request
		collectionID                            sql.NullInt64
		name, headers, queryParams, auth, body sql.NullString
	)
	if err := s.Scan(&r.ID, &collectionID, &name, &r.Method, &r.URL, &headers, &queryParams, &auth, &body, &r.CreatedAt); err != nil {
		return nil, err
	}
	if collectionID.Valid {
		id := collectionID.Int64
		r.CollectionID = &id
	}
	r.Name = name.String
	r.Headers = headers.String
	r.QueryParams = queryParams.String
	r.Auth = auth.String
	r.Body = body.String
	return &r, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, req *models.Request) (int64, error) {
	query := `INSERT INTO requests (collection_id, name, method, url, headers, query_params, auth, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var collectionID any
	if req.CollectionID != nil {
		collectionID = *req.CollectionID
	}

	res, err := r.db.ExecContext(ctx, query,
		collectionID, req.Name, req.Method, req.URL,
		nullable(req.Headers), nullable(req.QueryParams), nullable(req.Auth), nullable(req.Body))
	if err != nil {
		return 0, fmt.Errorf("failed to insert request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get request id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListByCollection(ctx context.Context, collectionID *int64) ([]models.Request, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if collectionID == nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+selectColumns+` FROM requests WHERE collection_id IS NULL ORDER BY created_at, id`)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+selectColumns+` FROM requests WHERE collection_id = ? ORDER BY created_at, id`, *collectionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select requests: %w", err)
	}
	defer rows.Close()

	result := make([]models.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		result = append(result, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate request rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM requests WHERE id = ?`, id)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request %d: %w", id, err)
	}
	return req, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, p models.RequestPatch) error {
	if p.Empty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		sets = append(sets, column+" = ?")
		args = append(args, v)
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Method != nil {
		add("method", *p.Method)
	}
	if p.URL != nil {
		add("url", *p.URL)
	}
	if p.Headers != nil {
		add("headers", nullable(*p.Headers))
	}
	if p.QueryParams != nil {
		add("query_params", nullable(*p.QueryParams))
	}
	if p.Auth != nil {
		add("auth", nullable(*p.Auth))
	}
	if p.Body != nil {
		add("body", nullable(*p.Body))
	}
	args = append(args, id)

	query := `UPDATE requests SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update request %d: %w", id, err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request %d: %w", id, err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) DeleteByCollection(ctx context.Context, collectionID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE collection_id = ?`, collectionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete requests of collection %d: %w", collectionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
