package client

import "fmt"

// TransportError reports a failed exchange. Response is set when the server
// answered with a status the transport does not accept.
type TransportError struct {
	Response *Reply
	Err      error
}

func (e *TransportError) Error() string {
	if e.Response != nil {
		return fmt.Sprintf("request failed with status code %d", e.Response.Status)
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HasResponse reports whether the server answered at all.
func (e *TransportError) HasResponse() bool {
	return e.Response != nil
}
