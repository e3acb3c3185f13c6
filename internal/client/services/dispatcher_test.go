package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/client"
	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/dmitrijs2005/fluxapi/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftFor(url string) models.Draft {
	d := models.NewDraft()
	d.ID = ptr(int64(7))
	d.URL = url
	return d
}

func TestDispatcher_EmptyURLNeverReachesTransport(t *testing.T) {
	ft := &fakeTransport{}
	d := NewDispatcher(ft, 0, false, logging.Nop())

	for _, url := range []string{"", "   "} {
		_, err := d.Send(context.Background(), draftFor(url))
		require.ErrorIs(t, err, common.ErrEmptyURL)
	}
	assert.Equal(t, 0, ft.count())
}

func TestDispatcher_DefaultTimeout(t *testing.T) {
	d := NewDispatcher(&fakeTransport{}, 0, false, logging.Nop())
	assert.Equal(t, common.DefaultRequestTimeout, d.BuildCall(draftFor("http://x.test")).Timeout)
}

func TestDispatcher_BuildCall(t *testing.T) {
	d := NewDispatcher(&fakeTransport{}, time.Second, false, logging.Nop())

	draft := draftFor(" http://x.test/a ")
	draft.Method = models.MethodPut
	draft.Headers = map[string]string{"X-A": "1"}
	draft.QueryParams = map[string]string{"q": "v", " ": "skip"}
	draft.Auth = models.BearerAuth{Token: "tok"}
	draft.Body = models.TextBody{Content: `{"a":1}`, ContentType: models.ContentJSON}

	call := d.BuildCall(draft)
	assert.Equal(t, models.MethodPut, call.Method)
	assert.Equal(t, "http://x.test/a", call.URL)
	assert.Equal(t, map[string]string{"X-A": "1", "Authorization": "Bearer tok"}, call.Headers)
	assert.Equal(t, map[string]string{"q": "v"}, call.Params)
	assert.Equal(t, client.JSONPayload(`{"a":1}`), call.Data)
	assert.Equal(t, time.Second, call.Timeout)
}

func TestDispatcher_SingleAttempt(t *testing.T) {
	ft := &fakeTransport{err: &client.TransportError{Err: io.EOF}}
	d := NewDispatcher(ft, time.Second, false, logging.Nop())

	out, err := d.Send(context.Background(), draftFor("http://x.test"))
	require.NoError(t, err)
	assert.True(t, out.Failed())
	assert.Equal(t, 1, ft.count())
}

func TestDispatcher_OneSendGuard(t *testing.T) {
	ft := &fakeTransport{reply: &client.Reply{Status: 200}, block: make(chan struct{})}
	d := NewDispatcher(ft, time.Second, true, logging.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		out, err := d.Send(context.Background(), draftFor("http://x.test"))
		assert.NoError(t, err)
		assert.False(t, out.Failed())
	}()

	require.Eventually(t, func() bool { return ft.count() == 1 }, time.Second, 5*time.Millisecond)

	_, err := d.Send(context.Background(), draftFor("http://x.test"))
	assert.ErrorIs(t, err, common.ErrSendInFlight)

	close(ft.block)
	wg.Wait()

	// после завершения снова можно отправлять
	_, err = d.Send(context.Background(), draftFor("http://x.test"))
	assert.NoError(t, err)
	assert.Equal(t, 2, ft.count())
}

func TestDispatcher_GuardOffAllowsConcurrentSends(t *testing.T) {
	ft := &fakeTransport{reply: &client.Reply{Status: 200}, block: make(chan struct{})}
	d := NewDispatcher(ft, time.Second, false, logging.Nop())

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Send(context.Background(), draftFor("http://x.test"))
			assert.NoError(t, err)
		}()
	}
	require.Eventually(t, func() bool { return ft.count() == 2 }, time.Second, 5*time.Millisecond)
	close(ft.block)
	wg.Wait()
}

func TestDispatcher_Timeout(t *testing.T) {
	ft := &fakeTransport{block: make(chan struct{})}
	d := NewDispatcher(ft, 20*time.Millisecond, false, logging.Nop())

	out, err := d.Send(context.Background(), draftFor("http://x.test"))
	require.NoError(t, err)
	require.True(t, out.Failed())
	assert.Equal(t, NetworkErrorPrefix+"request timed out", out.Err)
}

func TestDispatcher_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))

		w.Header().Set("X-Reply", "yes")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	}))
	defer srv.Close()

	d := NewDispatcher(client.NewHTTPTransport(srv.Client()), 5*time.Second, false, logging.Nop())

	draft := draftFor(srv.URL)
	draft.Method = models.MethodPost
	draft.QueryParams = map[string]string{"page": "1"}
	draft.Auth = models.BearerAuth{Token: "tok"}
	draft.Body = models.TextBody{Content: `{"a":1}`, ContentType: models.ContentJSON}

	out, err := d.Send(context.Background(), draft)
	require.NoError(t, err)
	require.False(t, out.Failed())
	assert.Equal(t, 422, out.Response.Status)
	assert.Equal(t, models.BandClientError, BandOf(out.Response.Status))
	assert.Equal(t, "yes", out.Response.Headers["X-Reply"])
	assert.Equal(t, `{"error":"bad"}`, out.Response.Data)
	assert.Equal(t, models.MethodPost, out.Response.Method)
}

func TestDispatcher_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	d := NewDispatcher(client.NewHTTPTransport(nil), 5*time.Second, false, logging.Nop())
	out, err := d.Send(context.Background(), draftFor(url))
	require.NoError(t, err)
	require.True(t, out.Failed())
	assert.Contains(t, out.Err, NetworkErrorPrefix)
}

func TestDispatcher_InvalidURL(t *testing.T) {
	d := NewDispatcher(client.NewHTTPTransport(nil), time.Second, false, logging.Nop())
	out, err := d.Send(context.Background(), draftFor("not a url"))
	require.NoError(t, err)
	require.True(t, out.Failed())
	assert.Contains(t, out.Err, RequestErrorPrefix)
}
