// Package metadata is a small key/value store in the local database. The
// client keeps its open-tab session here.
package metadata
