// Package telemetry provides request tagging for structured logging and metrics.
package telemetry

import (
	"context"
	"net/http"
)

type tagsKey struct{}

// CacheResult is the outcome of the response-cache lookup for a request.
type CacheResult string

const (
	CacheHit    CacheResult = "hit"
	CacheMiss   CacheResult = "miss"
	CacheBypass CacheResult = "bypass"
)

// RequestTags is the mutable per-request metadata shared between the
// logging middleware and the resource handlers. The middleware injects an
// empty holder before routing; handlers fill it in as they learn what the
// request is about.
type RequestTags struct {
	Resource    string
	Endpoint    string
	CacheResult CacheResult
}

// InjectTags returns a request carrying a fresh tag holder. Requests that
// never touch the response cache keep the bypass default.
func InjectTags(r *http.Request) *http.Request {
	tags := &RequestTags{CacheResult: CacheBypass}
	return r.WithContext(context.WithValue(r.Context(), tagsKey{}, tags))
}

// GetTags returns the tag holder, or nil outside the logging middleware.
func GetTags(r *http.Request) *RequestTags {
	tags, _ := r.Context().Value(tagsKey{}).(*RequestTags)
	return tags
}

// SetResource records which resource the request addressed.
func SetResource(r *http.Request, resource string) {
	if tags := GetTags(r); tags != nil {
		tags.Resource = resource
	}
}

// SetEndpoint records the operation within the resource (list, detail, ...).
func SetEndpoint(r *http.Request, endpoint string) {
	if tags := GetTags(r); tags != nil {
		tags.Endpoint = endpoint
	}
}

// SetCacheResult records the cache lookup outcome.
func SetCacheResult(r *http.Request, result CacheResult) {
	if tags := GetTags(r); tags != nil {
		tags.CacheResult = result
	}
}
