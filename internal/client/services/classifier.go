package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/client"
	"github.com/dmitrijs2005/fluxapi/internal/client/models"
)

const (
	// NetworkErrorPrefix marks sends that never got an answer.
	NetworkErrorPrefix = "Network Error: "
	// RequestErrorPrefix marks sends that failed before reaching the network.
	RequestErrorPrefix = "Request Error: "
)

var statusTexts = map[int]string{
	200: "OK",
	201: "Created",
	204: "No Content",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	500: "Internal Server Error",
}

// StatusText returns supplied when the server sent a reason phrase, the
// phrase from a short table of common codes otherwise, and "Unknown" as a
// last resort.
func StatusText(status int, supplied string) string {
	if supplied != "" {
		return supplied
	}
	if s, ok := statusTexts[status]; ok {
		return s
	}
	return "Unknown"
}

// BandOf groups a status code for display.
func BandOf(status int) models.Band {
	switch {
	case status >= 200 && status < 300:
		return models.BandSuccess
	case status >= 300 && status < 400:
		return models.BandRedirect
	case status >= 400 && status < 500:
		return models.BandClientError
	case status >= 500 && status < 600:
		return models.BandServerError
	default:
		return models.BandUnknown
	}
}

// Classify turns the result of one transport call into an Outcome.
//
// A reply, or a transport error that still carries the server's reply, is a
// Response whatever its status. A transport error without a reply is a
// network failure. Anything else failed while the request was being built.
func Classify(call *client.Call, reply *client.Reply, err error, elapsed time.Duration) models.Outcome {
	if err == nil && reply != nil {
		return models.Outcome{Response: normalize(call, reply, elapsed)}
	}

	var te *client.TransportError
	if errors.As(err, &te) {
		if te.HasResponse() {
			return models.Outcome{Response: normalize(call, te.Response, elapsed)}
		}
		return models.Outcome{Err: NetworkErrorPrefix + describeNetworkError(te.Err)}
	}

	if err == nil {
		err = errors.New("empty reply")
	}
	return models.Outcome{Err: RequestErrorPrefix + err.Error()}
}

func normalize(call *client.Call, reply *client.Reply, elapsed time.Duration) *models.Response {
	headers := make(map[string]string, len(reply.Headers))
	for k, v := range reply.Headers {
		headers[k] = v
	}

	url := reply.URL
	if url == "" {
		url = call.URL
	}

	return &models.Response{
		Status:       reply.Status,
		StatusText:   StatusText(reply.Status, reply.StatusText),
		Headers:      headers,
		Data:         string(reply.Data),
		ResponseTime: elapsed.Milliseconds(),
		Size:         len(reply.Data),
		URL:          url,
		Method:       call.Method,
	}
}

// describeNetworkError gives a short, actionable description of a failure
// that happened before any response arrived.
func describeNetworkError(err error) string {
	if err == nil {
		return "no response received"
	}

	var (
		dnsErr  *net.DNSError
		certErr *tls.CertificateVerificationError
		netErr  net.Error
	)

	switch {
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.As(err, &dnsErr):
		return fmt.Sprintf("could not resolve host %s", dnsErr.Name)
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused, check that the server is running and the port is correct"
	case errors.Is(err, syscall.ECONNRESET):
		return "connection reset by server"
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return "network unreachable"
	case errors.As(err, &certErr):
		return "TLS certificate verification failed: " + certErr.Err.Error()
	case errors.As(err, &netErr) && netErr.Timeout():
		return "request timed out"
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return "connection closed unexpectedly"
	}
	return err.Error()
}
