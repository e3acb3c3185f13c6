// Package history stores the responses received for saved requests.
package history
