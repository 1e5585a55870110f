// Package upstream provides the shared HTTP plumbing for the mock API
// clients: default timeouts, JSON content negotiation, optional bearer
// injection and transparent gzip decoding.
package upstream

import (
	"net/http"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/Ahmedsalem001/BOD-Dashboard/telemetry"
)

// DefaultTimeout is the request timeout applied to upstream API clients.
const DefaultTimeout = 10 * time.Second

// TokenSource supplies a bearer token for outgoing requests.
// An empty return means no Authorization header is attached.
type TokenSource func() string

// Transport decorates a base http.RoundTripper with the headers the
// mock API expects and decodes gzip response bodies transparently.
type Transport struct {
	base   http.RoundTripper
	tokens TokenSource
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithTokenSource sets the bearer token source for outgoing requests.
func WithTokenSource(ts TokenSource) TransportOption {
	return func(t *Transport) {
		t.tokens = ts
	}
}

// NewTransport creates a Transport. If base is nil, http.DefaultTransport
// is used.
func NewTransport(base http.RoundTripper, opts ...TransportOption) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &Transport{base: base}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone before mutating, RoundTrippers must not modify the original request.
	req = req.Clone(req.Context())

	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if req.Header.Get("Accept-Encoding") == "" {
		// Opting in manually disables the net/http auto-decode path,
		// so we decode below.
		req.Header.Set("Accept-Encoding", "gzip")
	}

	if t.tokens != nil {
		if token := t.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		resp.Body = &gzipBody{Reader: gz, inner: resp.Body}
		resp.Header.Del("Content-Encoding")
		resp.Header.Del("Content-Length")
		resp.ContentLength = -1
		resp.Uncompressed = true
	}

	return resp, nil
}

// gzipBody closes both the gzip reader and the underlying body.
type gzipBody struct {
	*gzip.Reader
	inner interface{ Close() error }
}

func (b *gzipBody) Close() error {
	gzErr := b.Reader.Close()
	if err := b.inner.Close(); err != nil {
		return err
	}
	return gzErr
}

// NewHTTPClient builds the standard client used by the resource clients:
// default timeout, upstream headers and fetch instrumentation for the
// named resource.
func NewHTTPClient(resource string, base http.RoundTripper, opts ...TransportOption) *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: NewTransport(telemetry.NewInstrumentedTransport(base, resource), opts...),
	}
}
