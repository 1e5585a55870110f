package telemetry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// InstrumentedTransport records fetch metrics for one upstream resource.
// Every API client wraps its transport in one of these, so fetch counts,
// durations and payload sizes are dimensioned per resource.
type InstrumentedTransport struct {
	base     http.RoundTripper
	resource string
}

// NewInstrumentedTransport wraps base for the named resource. A nil base
// means http.DefaultTransport.
func NewInstrumentedTransport(base http.RoundTripper, resource string) *InstrumentedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &InstrumentedTransport{base: base, resource: resource}
}

// RoundTrip implements http.RoundTripper. Transport failures are recorded
// immediately; successful round trips are recorded once the JSON body has
// been consumed, so the byte count covers the full payload.
func (t *InstrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		RecordUpstreamFetch(req.Context(), t.resource, time.Since(start), 0, errorOutcome(req.Context()))
		return nil, err
	}

	resp.Body = &meteredBody{
		body:     resp.Body,
		ctx:      req.Context(),
		resource: t.resource,
		start:    start,
		outcome:  statusOutcome(resp.StatusCode),
	}
	return resp, nil
}

func statusOutcome(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "success"
	}
}

func errorOutcome(ctx context.Context) string {
	if ctx.Err() != nil {
		return "canceled"
	}
	return "error"
}

// meteredBody counts payload bytes as the JSON decoder drains the body and
// records the fetch when the payload ends or the body is closed, whichever
// comes first. Recording happens exactly once.
type meteredBody struct {
	body     io.ReadCloser
	ctx      context.Context
	resource string
	start    time.Time
	outcome  string
	bytes    int64
	recorded bool
}

func (b *meteredBody) Read(p []byte) (int, error) {
	n, err := b.body.Read(p)
	b.bytes += int64(n)
	if errors.Is(err, io.EOF) {
		b.record()
	}
	return n, err
}

func (b *meteredBody) Close() error {
	b.record()
	return b.body.Close()
}

func (b *meteredBody) record() {
	if b.recorded {
		return
	}
	b.recorded = true
	RecordUpstreamFetch(b.ctx, b.resource, time.Since(b.start), b.bytes, b.outcome)
}
