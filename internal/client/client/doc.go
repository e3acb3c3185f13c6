// Package client contains the outward-facing building blocks of the fluxapi
// client.
//
// # Overview
//
// The package provides:
//  1. A transport contract (see Transport) that performs exactly one HTTP
//     exchange for a Call and returns the raw Reply.
//  2. A net/http implementation (see HTTPTransport) that merges query
//     parameters, encodes the body payload, enforces the per-call timeout,
//     and treats statuses rejected by ValidateStatus as failures that still
//     carry the server's response.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations,
//     NewRepositories), wiring an SQLite database and applying embedded
//     goose migrations.
//
// # Error Handling
//
// Failures of the exchange itself are reported as *TransportError. Use
// HasResponse to tell a server that answered with an error status from a
// request that never got an answer. Any other error means the request could
// not be built.
//
// See Also
//
//   - Interface:  Transport
//   - HTTP impl:  HTTPTransport
//   - DB helpers: InitDatabase, RunMigrations, NewRepositories
//   - Errors:     TransportError
package client
