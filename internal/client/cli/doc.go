// Package cli provides the interactive fluxapi command-line client.
//
// It wires configuration, local storage, the HTTP transport and the
// workspace into a REPL. Typical flow: restore the previous session, start
// a background watcher that closes tabs of deleted requests, and execute
// user commands against the active tab.
//
// Key features:
//   - Collections and saved requests
//   - Tabs with autosaved drafts (method, URL, headers, params, auth, body)
//   - Send with band-colored status, response diff, JMESPath filter, copy
//   - Per-request response history
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, App.Run and runREPL for details.
package cli
