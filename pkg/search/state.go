package search

import (
	"net/url"
	"strconv"

	"github.com/msugsc-shs/research-archive/pkg/archive"
)

// State is the listing page's UI state: what the visitor typed, which
// categories are on and which page is shown. Transitions return new values
// and never modify the receiver.
type State struct {
	Query   string
	Filters FilterSet
	Page    int
}

// NewState returns the initial state: empty query, every filter on, page 1.
func NewState() State {
	return State{Filters: AllFilters(), Page: 1}
}

// SetQuery replaces the query and goes back to the first page.
func (s State) SetQuery(q string) State {
	return State{Query: q, Filters: s.Filters.Clone(), Page: 1}
}

// ToggleFilter flips one category and goes back to the first page.
func (s State) ToggleFilter(t archive.Type) State {
	return State{Query: s.Query, Filters: s.Filters.Toggle(t), Page: 1}
}

// SetPage moves to page p, never below 1.
func (s State) SetPage(p int) State {
	return State{Query: s.Query, Filters: s.Filters.Clone(), Page: max(p, 1)}
}

// Prev moves one page back, stopping at the first page.
func (s State) Prev() State {
	return s.SetPage(s.Page - 1)
}

// Next moves one page forward, stopping at pageCount. It is a no-op when
// there are no pages.
func (s State) Next(pageCount int) State {
	if pageCount <= 0 {
		return s.SetPage(s.Page)
	}
	return s.SetPage(min(s.Page+1, pageCount))
}

// Values encodes the state as query string parameters. Defaults are left
// out so the initial state encodes to an empty query string.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	if !s.Filters.All() {
		v.Set("f", "1")
		for _, t := range s.Filters.Enabled() {
			v.Add("type", string(t))
		}
	}
	if s.Page > 1 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	return v
}

// Encode is Values().Encode().
func (s State) Encode() string {
	return s.Values().Encode()
}

// ParseState decodes a state from query string parameters.
//
// Supported parameters:
//   - q: search query
//   - type: included category (repeatable)
//   - f: marks the filter set as explicit, so no type means no category
//   - page: page number (positive integer, defaults to 1)
//
// Without f or type every category is included. Unknown types are ignored.
func ParseState(queryParams url.Values) State {
	s := NewState()
	s.Query = queryParams.Get("q")

	types := queryParams["type"]
	if queryParams.Has("f") || len(types) > 0 {
		s.Filters = NoFilters()
		for _, raw := range types {
			if t, err := archive.ParseType(raw); err == nil {
				s.Filters[t] = true
			}
		}
	}

	if pageStr := queryParams.Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			s.Page = parsed
		}
	}
	return s
}
