package query

import (
	"net/http"
	"strconv"
)

// FromRequest builds a State from the list endpoint query parameters
// search, page and per_page. Missing or malformed values fall back to the
// defaults.
func FromRequest(r *http.Request) State {
	s := NewState()
	q := r.URL.Query()

	if term := q.Get("search"); term != "" {
		s.SetSearchTerm(term)
	}
	if raw := q.Get("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			s.SetPerPage(n)
		}
	}
	if raw := q.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			s.SetPage(n)
		}
	}
	return s
}
