package types

import "github.com/msugsc-shs/research-archive/pkg/search"

// PageData holds what every page shows around its content
type PageData struct {
	Title   string
	Version string // Application version (for footer display)
}

// FilterToggle is one category switch on the listing page. URL applies the
// toggle while keeping the query.
type FilterToggle struct {
	Type    string
	Label   string
	Enabled bool
	URL     string
}

// ResultView is one archive card on the listing page
type ResultView struct {
	URL      string
	Title    []search.Segment
	Year     string
	Authors  string
	Type     string
	Abstract string
	Keywords []string
	Matched  bool
}

// IndexData is passed to the listing/search page
type IndexData struct {
	PageData
	Query       string
	Placeholder string
	Filters     []FilterToggle
	Results     []ResultView

	TotalCount   int
	MatchedCount int
	CurrentPage  int
	TotalPages   int
	PrevURL      string // empty on the first page
	NextURL      string // empty on the last page

	// NoResults is set when nothing is left to show.
	NoResults bool
	// NoMatches is set when records are shown but none matched the query.
	NoMatches bool
}

// ArchiveData is passed to the detail page
type ArchiveData struct {
	PageData
	Title        string
	Year         string
	Authors      string
	Type         string
	Keywords     []string
	Abstract     string
	URL          string
	CitationHTML string // sanitized APA reference, rendered unescaped
	CitationText string
	BibTeX       string
}

// ErrorData is passed to the error page
type ErrorData struct {
	PageData
	Status  int
	Message string
}
