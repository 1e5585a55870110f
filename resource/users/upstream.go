package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Ahmedsalem001/BOD-Dashboard/apperror"
	"github.com/Ahmedsalem001/BOD-Dashboard/upstream"
)

// DefaultBaseURL is the public JSONPlaceholder mock API.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// Upstream fetches user records from the mock API.
type Upstream struct {
	baseURL string
	client  *http.Client
}

// UpstreamOption configures an Upstream.
type UpstreamOption func(*Upstream)

// WithBaseURL sets the upstream API base URL.
func WithBaseURL(url string) UpstreamOption {
	return func(u *Upstream) {
		u.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) UpstreamOption {
	return func(u *Upstream) {
		u.client = client
	}
}

// NewUpstream creates a new upstream API client.
func NewUpstream(opts ...UpstreamOption) *Upstream {
	u := &Upstream{
		baseURL: DefaultBaseURL,
		client:  upstream.NewHTTPClient("users", nil),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// List fetches all users.
func (u *Upstream) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := u.getJSON(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single user by id.
func (u *Upstream) Get(ctx context.Context, id int) (*User, error) {
	var out User
	if err := u.getJSON(ctx, fmt.Sprintf("/users/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// getJSON performs a GET against the upstream and decodes the JSON body.
// Transport failures map to network errors, non-2xx statuses to their
// user-facing messages.
func (u *Upstream) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return apperror.NewNetwork(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return apperror.NewNotFound(apperror.StatusMessage(http.StatusNotFound))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperror.FromStatus(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewInternal("decoding upstream response", err)
	}

	return nil
}
