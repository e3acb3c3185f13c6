// Package requests provides the client-side persistence layer for saved
// requests.
//
// # Data Model
//
// A request row keeps name, method and url as plain columns and the
// structured facets (headers, query_params, auth, body) as JSON text. Empty
// facet strings are written as NULL. Decoding the text is the caller's job
// (see models.LoadDraft); the repository never interprets it.
//
// # Partial updates
//
// Update builds its SET list only from the non-nil fields of a
// models.RequestPatch, so concurrent writers touching different facets do not
// overwrite each other.
//
// Key Types
//
//   - type Repository        — interface used by higher-level services
//   - type SQLiteRepository  — SQLite implementation over dbx.DBTX
package requests
