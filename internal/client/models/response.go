package models

// Band groups status codes for display.
type Band string

const (
	BandSuccess     Band = "success"
	BandRedirect    Band = "redirect"
	BandClientError Band = "client-error"
	BandServerError Band = "server-error"
	BandUnknown     Band = "unknown"
)

// Response is the normalized result of a send that reached a server,
// whatever its status. ResponseTime is in milliseconds and Size is the byte
// length of Data.
type Response struct {
	Status       int
	StatusText   string
	Headers      map[string]string
	Data         string
	ResponseTime int64
	Size         int
	URL          string
	Method       Method
}

// Outcome is the result of a send: exactly one of Response and Err is set.
type Outcome struct {
	Response *Response
	Err      string
}

func (o Outcome) Failed() bool {
	return o.Response == nil
}
