// Package collections provides the client-side persistence layer for request
// collections.
//
// A SQLite-backed implementation (SQLiteRepository) persists data using a
// dbx.DBTX, so the same repository works on *sql.DB and inside a transaction.
// Deleting a collection cascades to its requests through the foreign key.
package collections
