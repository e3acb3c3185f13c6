// Package workspace holds the editor state of the client: the open tabs,
// each request tab's draft, the last outcome of its sends and the debounced
// saver that mirrors draft edits to storage.
//
// Edits are applied to the in-memory draft first and then scheduled for a
// save; a completed or failed save never rewrites the draft. Storage is only
// read back into a draft on an explicit Reload.
//
// Observers registered with Subscribe receive Events synchronously, outside
// the workspace lock, so they may call back into the Workspace.
package workspace
