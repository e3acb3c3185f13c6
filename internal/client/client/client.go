package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
)

// Transport performs a single HTTP exchange. Implementations must not retry.
type Transport interface {
	Do(ctx context.Context, call *Call) (*Reply, error)
}

// Call describes one outgoing request. Data is nil, a string, a []byte, one
// of the payload types below, or any value that is sent as JSON.
type Call struct {
	Method  models.Method
	URL     string
	Headers map[string]string
	Params  map[string]string
	Data    any
	Timeout time.Duration
}

// Reply is the raw answer of a server. Repeated headers are joined with ", ".
type Reply struct {
	Status     int
	StatusText string
	Headers    map[string]string
	Data       []byte
	URL        string
}

// RawPayload is sent verbatim with ContentType.
type RawPayload struct {
	Data        string
	ContentType string
}

// JSONPayload is an already validated JSON document.
type JSONPayload json.RawMessage

// FilePayload is an inline file; Data is a base64 data URL.
type FilePayload struct {
	Name string
	Type string
	Data string
}

// FormPayload is sent as multipart/form-data.
type FormPayload []models.FormField
