package client

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method      string
	query       string
	contentType string
	headers     http.Header
	body        string
	form        map[string]string
	files       map[string]string
}

func newEchoServer(t *testing.T, status int, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.query = r.URL.RawQuery
		got.contentType = r.Header.Get("Content-Type")
		got.headers = r.Header.Clone()

		if strings.HasPrefix(got.contentType, "multipart/form-data") {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			got.form = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				got.form[k] = v[0]
			}
			got.files = map[string]string{}
			for k, fh := range r.MultipartForm.File {
				f, err := fh[0].Open()
				require.NoError(t, err)
				b, _ := io.ReadAll(f)
				_ = f.Close()
				got.files[k] = string(b)
			}
		} else {
			b, _ := io.ReadAll(r.Body)
			got.body = string(b)
		}

		w.Header().Add("X-Multi", "a")
		w.Header().Add("X-Multi", "b")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPTransport_Success(t *testing.T) {
	var got captured
	srv := newEchoServer(t, http.StatusCreated, &got)

	tr := NewHTTPTransport(nil)
	reply, err := tr.Do(context.Background(), &Call{
		Method:  models.MethodPost,
		URL:     srv.URL + "/users?x=1",
		Headers: map[string]string{"X-Trace": "abc", "": "skipped"},
		Params:  map[string]string{"page": "2", "": "skipped"},
		Data:    JSONPayload(`{"a":1}`),
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, reply.Status)
	assert.Equal(t, "Created", reply.StatusText)
	assert.Equal(t, "a, b", reply.Headers["X-Multi"])
	assert.Equal(t, `{"ok":true}`, string(reply.Data))

	assert.Equal(t, "POST", got.method)
	assert.Equal(t, "page=2&x=1", got.query)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, "abc", got.headers.Get("X-Trace"))
	assert.Equal(t, `{"a":1}`, got.body)
}

func TestHTTPTransport_ErrorStatusCarriesReply(t *testing.T) {
	var got captured
	srv := newEchoServer(t, http.StatusNotFound, &got)

	reply, err := NewHTTPTransport(nil).Do(context.Background(), &Call{Method: models.MethodGet, URL: srv.URL})
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.HasResponse())
	assert.Equal(t, 404, te.Response.Status)
	assert.Equal(t, "Not Found", te.Response.StatusText)
	assert.Same(t, reply, te.Response)
	assert.Equal(t, "request failed with status code 404", err.Error())
}

func TestHTTPTransport_CustomValidateStatus(t *testing.T) {
	var got captured
	srv := newEchoServer(t, http.StatusInternalServerError, &got)

	tr := NewHTTPTransport(nil)
	tr.ValidateStatus = func(int) bool { return true }

	reply, err := tr.Do(context.Background(), &Call{Method: models.MethodGet, URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 500, reply.Status)
}

func TestHTTPTransport_NoResponse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	_, err = NewHTTPTransport(nil).Do(context.Background(), &Call{Method: models.MethodGet, URL: "http://" + addr})
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.False(t, te.HasResponse())
}

func TestHTTPTransport_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	_, err := NewHTTPTransport(nil).Do(context.Background(), &Call{
		Method: models.MethodGet, URL: srv.URL, Timeout: 50 * time.Millisecond,
	})
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.False(t, te.HasResponse())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPTransport_InvalidURLIsNotTransportError(t *testing.T) {
	for _, u := range []string{"not a url", "/relative", "http://[::1"} {
		_, err := NewHTTPTransport(nil).Do(context.Background(), &Call{Method: models.MethodGet, URL: u})
		require.Error(t, err, u)

		var te *TransportError
		assert.False(t, errors.As(err, &te), u)
	}
}

func TestHTTPTransport_Payloads(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		headers  map[string]string
		wantBody string
		wantType string
	}{
		{name: "raw string", data: "hello", wantBody: "hello", wantType: "text/plain; charset=utf-8"},
		{name: "raw payload", data: RawPayload{Data: "{bad", ContentType: "application/json"}, wantBody: "{bad", wantType: "application/json"},
		{name: "user content type wins", data: RawPayload{Data: "a: 1", ContentType: "application/yaml"},
			headers: map[string]string{"content-type": "text/x-yaml"}, wantBody: "a: 1", wantType: "text/x-yaml"},
		{name: "file data url", data: FilePayload{Name: "a.txt", Data: "data:text/plain;base64,aGVsbG8="}, wantBody: "hello", wantType: "text/plain"},
		{name: "file explicit type", data: FilePayload{Type: "image/png", Data: "AAEC"}, wantBody: "\x00\x01\x02", wantType: "image/png"},
		{name: "file undecodable", data: FilePayload{Data: "%%%"}, wantBody: "%%%", wantType: "application/octet-stream"},
		{name: "bytes", data: []byte{0x41}, wantBody: "A", wantType: "application/octet-stream"},
		{name: "any value as json", data: map[string]int{"n": 1}, wantBody: `{"n":1}`, wantType: "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got captured
			srv := newEchoServer(t, http.StatusOK, &got)

			_, err := NewHTTPTransport(nil).Do(context.Background(), &Call{
				Method: models.MethodPut, URL: srv.URL, Data: tt.data, Headers: tt.headers,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, got.body)
			assert.Equal(t, tt.wantType, got.contentType)
		})
	}
}

func TestHTTPTransport_Multipart(t *testing.T) {
	var got captured
	srv := newEchoServer(t, http.StatusOK, &got)

	_, err := NewHTTPTransport(nil).Do(context.Background(), &Call{
		Method:  models.MethodPost,
		URL:     srv.URL,
		Headers: map[string]string{"Content-Type": "application/json"},
		Data: FormPayload{
			{Key: "name", Value: "gopher", Type: models.FieldText},
			{Key: "", Value: "blank rows are skipped", Type: models.FieldText},
			{Key: "avatar", Value: "data:text/plain;base64,aGk=", Type: models.FieldFile},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.contentType, "multipart/form-data; boundary="))
	assert.Equal(t, map[string]string{"name": "gopher"}, got.form)
	assert.Equal(t, map[string]string{"avatar": "hi"}, got.files)
}

func TestHTTPTransport_UnencodableData(t *testing.T) {
	_, err := NewHTTPTransport(nil).Do(context.Background(), &Call{
		Method: models.MethodPost, URL: "http://127.0.0.1:1", Data: make(chan int),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode body")
}
