package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/filex"
)

// HTTPTransport implements Transport over net/http.
type HTTPTransport struct {
	client *http.Client

	// ValidateStatus decides which statuses count as success. Other statuses
	// are returned together with a *TransportError carrying the reply.
	// Nil means 2xx.
	ValidateStatus func(status int) bool
}

// NewHTTPTransport wraps c; a nil client gets a fresh http.Client. Timeouts
// come from each Call, so c should not set its own.
func NewHTTPTransport(c *http.Client) *HTTPTransport {
	if c == nil {
		c = &http.Client{}
	}
	return &HTTPTransport{client: c}
}

func (t *HTTPTransport) validate(status int) bool {
	if t.ValidateStatus != nil {
		return t.ValidateStatus(status)
	}
	return status >= 200 && status < 300
}

func (t *HTTPTransport) Do(ctx context.Context, call *Call) (*Reply, error) {
	if call.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, call.Timeout)
		defer cancel()
	}

	target, err := buildURL(call.URL, call.Params)
	if err != nil {
		return nil, err
	}

	body, contentType, forced, err := encodePayload(call.Data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, string(call.Method), target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for k, v := range call.Headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}
	if contentType != "" && (forced || req.Header.Get("Content-Type") == "") {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	reply := &Reply{
		Status:     resp.StatusCode,
		StatusText: statusPhrase(resp),
		Headers:    flattenHeaders(resp.Header),
		Data:       data,
		URL:        resp.Request.URL.String(),
	}

	if !t.validate(resp.StatusCode) {
		return reply, &TransportError{
			Response: reply,
			Err:      fmt.Errorf("request failed with status code %d", resp.StatusCode),
		}
	}
	return reply, nil
}

func buildURL(raw string, params map[string]string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: scheme and host are required", raw)
	}

	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			if strings.TrimSpace(k) == "" {
				continue
			}
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// encodePayload turns call data into a request body. forced reports a
// content type that must win over a user-supplied one (multipart boundary).
func encodePayload(data any) (body io.Reader, contentType string, forced bool, err error) {
	switch v := data.(type) {
	case nil:
		return nil, "", false, nil
	case string:
		return strings.NewReader(v), "text/plain; charset=utf-8", false, nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", false, nil
	case RawPayload:
		return strings.NewReader(v.Data), v.ContentType, false, nil
	case JSONPayload:
		return bytes.NewReader(v), "application/json", false, nil
	case FilePayload:
		b, mt, err := filex.DecodeDataURL(v.Data)
		if err != nil {
			// undecodable data goes out as typed
			b = []byte(v.Data)
		}
		ct := v.Type
		if ct == "" {
			ct = mt
		}
		if ct == "" {
			ct = "application/octet-stream"
		}
		return bytes.NewReader(b), ct, false, nil
	case FormPayload:
		buf, ct, err := encodeMultipart(v)
		if err != nil {
			return nil, "", false, err
		}
		return buf, ct, true, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", false, fmt.Errorf("failed to encode body: %w", err)
		}
		return bytes.NewReader(b), "application/json", false, nil
	}
}

func encodeMultipart(fields []models.FormField) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if strings.TrimSpace(f.Key) == "" {
			continue
		}
		if f.Type != models.FieldFile {
			if err := w.WriteField(f.Key, f.Value); err != nil {
				return nil, "", fmt.Errorf("failed to write form field %s: %w", f.Key, err)
			}
			continue
		}

		data, _, err := filex.DecodeDataURL(f.Value)
		if err != nil {
			data = []byte(f.Value)
		}
		part, err := w.CreateFormFile(f.Key, f.Key)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", f.Key, err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", f.Key, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// statusPhrase strips the numeric code from resp.Status ("404 Not Found").
func statusPhrase(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}
