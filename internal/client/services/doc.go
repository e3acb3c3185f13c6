// Package services contains the application services of the fluxapi
// client: turning drafts into HTTP calls and classifying the outcome,
// debounced persistence of draft edits, the open-tab set and its validation
// against storage, session persistence, collections and response history.
//
// Services talk to storage through small interfaces (RequestStore,
// RequestGetter, RequestUpdater) satisfied by the SQLite repositories, so
// tests can substitute fakes.
package services
