package workspace

import "github.com/dmitrijs2005/fluxapi/internal/client/models"

type EventKind string

const (
	// EventLoading is sent when a send starts.
	EventLoading EventKind = "loading"
	// EventResponse carries a response, whatever its status.
	EventResponse EventKind = "response"
	// EventError carries a send that got no response.
	EventError EventKind = "error"
	// EventValidation carries an inline message for a send rejected locally.
	EventValidation EventKind = "validation"
	// EventSaveFailed reports a background save that failed.
	EventSaveFailed EventKind = "save-failed"
	// EventTabsEvicted lists tabs closed because their request is gone.
	EventTabsEvicted EventKind = "tabs-evicted"
)

type Event struct {
	Kind    EventKind
	TabID   string
	Outcome *models.Outcome
	Message string
	Err     error
	TabIDs  []string
}

// TabState is the per-tab view state next to the draft.
type TabState struct {
	Outcome    *models.Outcome
	Loading    bool
	BodyErrors bool

	inflight int
}
