package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.HistoryEntry) (int64, error) {
	var requestID any
	if e.RequestID != nil {
		requestID = *e.RequestID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO history (request_id, status_code, response_time, response_body) VALUES (?, ?, ?, ?)`,
		requestID, e.StatusCode, e.ResponseTime, e.ResponseBody)
	if err != nil {
		return 0, fmt.Errorf("failed to insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get history id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListByRequest(ctx context.Context, requestID int64, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, request_id, status_code, response_time, response_body, created_at
		FROM history WHERE request_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, requestID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	result := make([]models.HistoryEntry, 0)
	for rows.Next() {
		var (
			e    models.HistoryEntry
			rid  sql.NullInt64
			body sql.NullString
		)
		if err := rows.Scan(&e.ID, &rid, &e.StatusCode, &e.ResponseTime, &body, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if rid.Valid {
			id := rid.Int64
			e.RequestID = &id
		}
		e.ResponseBody = body.String
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}
	return result, nil
}
