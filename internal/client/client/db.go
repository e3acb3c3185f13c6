package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fluxapi/internal/client/migrations"
	"github.com/dmitrijs2005/fluxapi/internal/client/repositories/collections"
	"github.com/dmitrijs2005/fluxapi/internal/client/repositories/history"
	"github.com/dmitrijs2005/fluxapi/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fluxapi/internal/client/repositories/requests"
	"github.com/dmitrijs2005/fluxapi/internal/dbx"
	"github.com/dmitrijs2005/fluxapi/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles the repositories over one database handle.
type Repositories struct {
	Collections collections.Repository
	Requests    requests.Repository
	History     history.Repository
	Metadata    metadata.Repository
}

// NewRepositories binds every repository to db, which may be a transaction.
func NewRepositories(db dbx.DBTX) *Repositories {
	return &Repositories{
		Collections: collections.NewSQLiteRepository(db),
		Requests:    requests.NewSQLiteRepository(db),
		History:     history.NewSQLiteRepository(db),
		Metadata:    metadata.NewSQLiteRepository(db),
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite file at path with
// foreign keys enabled and applies pending migrations.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
