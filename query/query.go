// Package query derives the visible page from an in-memory collection: a
// case-insensitive substring filter over configurable fields, pagination,
// and page-count metadata.
package query

import "strings"

// DefaultPerPage is the default page size.
const DefaultPerPage = 10

// State holds the search and pagination parameters for one collection.
// Invariant: Page stays clamped to [1, max(1, totalPages)] as the filtered
// count or page size changes.
type State struct {
	SearchTerm string `json:"searchTerm"`
	Page       int    `json:"currentPage"`
	PerPage    int    `json:"itemsPerPage"`
}

// NewState returns a state on page 1 with the default page size.
func NewState() State {
	return State{Page: 1, PerPage: DefaultPerPage}
}

// SetSearchTerm updates the search term and resets to page 1. Resetting on a
// term change is deliberate UI policy, not incidental.
func (s *State) SetSearchTerm(term string) {
	s.SearchTerm = term
	s.Page = 1
}

// SetPerPage updates the page size and resets to page 1.
func (s *State) SetPerPage(n int) {
	if n <= 0 {
		n = DefaultPerPage
	}
	s.PerPage = n
	s.Page = 1
}

// SetPage moves to the given page, clamped to at least 1. Clamping against
// the upper bound happens in Clamp once the filtered count is known.
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}

// Clamp pulls Page back into [1, max(1, totalPages)] for the given filtered
// item count.
func (s *State) Clamp(filteredCount int) {
	max := TotalPages(filteredCount, s.PerPage)
	if max < 1 {
		max = 1
	}
	if s.Page > max {
		s.Page = max
	}
	if s.Page < 1 {
		s.Page = 1
	}
}

// TotalPages returns ceil(count / perPage), with zero items counting as one
// page so the UI never renders a zero-page state.
func TotalPages(count, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if count == 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// Filter returns the items whose indexed fields contain term,
// case-insensitively. An empty term passes the whole collection through in
// order.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)

	var matched []T
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), needle) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

// Page is one page of a filtered collection plus its metadata.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Paginate slices items into the requested page. A page beyond the last
// yields an empty slice, not an error.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), perPage),
	}
}

// Apply runs the full pipeline: filter by state's search term, then slice
// out the state's page.
func Apply[T any](items []T, state State, fields func(T) []string) Page[T] {
	filtered := Filter(items, state.SearchTerm, fields)
	return Paginate(filtered, state.Page, state.PerPage)
}
