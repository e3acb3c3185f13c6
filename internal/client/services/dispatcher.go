package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/client"
	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/dmitrijs2005/fluxapi/internal/logging"
)

// Dispatcher sends drafts. Each Send makes at most one transport call and
// never retries.
type Dispatcher struct {
	transport client.Transport
	timeout   time.Duration
	log       logging.Logger

	// oneSendPerDraft rejects a send while another one for the same stored
	// request is running.
	oneSendPerDraft bool

	mu       sync.Mutex
	inflight map[int64]struct{}
}

// NewDispatcher builds a Dispatcher. A non-positive timeout means
// common.DefaultRequestTimeout.
func NewDispatcher(t client.Transport, timeout time.Duration, oneSendPerDraft bool, log logging.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = common.DefaultRequestTimeout
	}
	return &Dispatcher{
		transport:       t,
		timeout:         timeout,
		log:             log,
		oneSendPerDraft: oneSendPerDraft,
		inflight:        make(map[int64]struct{}),
	}
}

// BuildCall maps a draft onto a transport call: auth is folded into the
// headers and the body is resolved into a payload.
func (d *Dispatcher) BuildCall(draft models.Draft) *client.Call {
	payload, _ := ResolveBody(draft.Body)
	return &client.Call{
		Method:  draft.Method,
		URL:     strings.TrimSpace(draft.URL),
		Headers: ApplyAuth(draft.Headers, draft.Auth),
		Params:  cloneParams(draft.QueryParams),
		Data:    payload,
		Timeout: d.timeout,
	}
}

// Send validates the draft locally and performs the call. A blank URL
// returns common.ErrEmptyURL without touching the transport; with the
// one-send guard on, a concurrent send of the same request returns
// common.ErrSendInFlight. Otherwise the error is nil and the Outcome holds
// either the response or the failure text.
func (d *Dispatcher) Send(ctx context.Context, draft models.Draft) (models.Outcome, error) {
	if strings.TrimSpace(draft.URL) == "" {
		return models.Outcome{}, common.ErrEmptyURL
	}

	if id, ok := draft.RequestID(); ok && d.oneSendPerDraft {
		if !d.acquire(id) {
			return models.Outcome{}, common.ErrSendInFlight
		}
		defer d.release(id)
	}

	if b, ok := draft.Auth.(models.BearerAuth); ok {
		if exp, ok := TokenExpiry(b.Token); ok && exp.Before(time.Now()) {
			d.log.Warn(ctx, "bearer token has expired", "expired_at", exp)
		}
	}

	call := d.BuildCall(draft)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	reply, err := d.transport.Do(ctx, call)
	out := Classify(call, reply, err, time.Since(start))

	if out.Failed() {
		d.log.Info(ctx, "send failed", "method", call.Method, "url", call.URL, "err", out.Err)
	} else {
		d.log.Debug(ctx, "send completed", "method", call.Method, "url", call.URL,
			"status", out.Response.Status, "ms", out.Response.ResponseTime)
	}
	return out, nil
}

func (d *Dispatcher) acquire(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inflight[id]; busy {
		return false
	}
	d.inflight[id] = struct{}{}
	return true
}

func (d *Dispatcher) release(id int64) {
	d.mu.Lock()
	delete(d.inflight, id)
	d.mu.Unlock()
}

func cloneParams(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out[k] = v
	}
	return out
}
