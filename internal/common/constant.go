package common

import "time"

const (
	// DefaultRequestTimeout bounds a single send.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultSaveDebounce is the quiet period before a draft edit is written.
	DefaultSaveDebounce = 300 * time.Millisecond

	// DefaultRequestName is given to freshly created requests.
	DefaultRequestName = "Untitled"

	// AuthorizationHeader is the header auth settings are applied to.
	AuthorizationHeader = "Authorization"
)
