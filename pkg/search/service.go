package search

import (
	"slices"
	"strings"

	"github.com/msugsc-shs/research-archive/pkg/archive"
)

const (
	// DefaultThreshold is the minimum field score for a record to count as a
	// match.
	DefaultThreshold = 0.5

	// Wildcard matches every record that passes the category filters.
	Wildcard = "*"

	neutralScore = 1.0
)

// Searchable field names, in scoring order.
const (
	FieldTitle    = "title"
	FieldAbstract = "abstract"
	FieldAuthors  = "authors"
	FieldKeywords = "keywords"
)

// Options tunes a search run.
type Options struct {
	// Threshold overrides DefaultThreshold when positive.
	Threshold float64

	// IncludeAll keeps filtered records that fail the threshold. They are
	// returned with Matched unset, ranked after every match.
	IncludeAll bool
}

// Result pairs a record with its relevance.
type Result struct {
	Archive archive.Archive `json:"archive"`

	// Score is in [0,1]: the mean of each term's best field score when every
	// term matched, otherwise the score of the weakest term.
	Score float64 `json:"score"`

	// Matched is true when Score reached the threshold, or when the query was
	// empty or the wildcard.
	Matched bool `json:"matched"`

	// Field names the best scoring field. Empty for neutral results.
	Field string `json:"field,omitempty"`

	// Highlights holds match spans per field name.
	Highlights map[string][]Span `json:"highlights,omitempty"`
}

// FilterSet maps each category to an include flag.
type FilterSet map[archive.Type]bool

// AllFilters returns a filter set that includes every category.
func AllFilters() FilterSet {
	f := make(FilterSet, len(archive.Types))
	for _, t := range archive.Types {
		f[t] = true
	}
	return f
}

// NoFilters returns a filter set that excludes every category.
func NoFilters() FilterSet {
	f := make(FilterSet, len(archive.Types))
	for _, t := range archive.Types {
		f[t] = false
	}
	return f
}

// Includes reports whether records of type t pass the filter.
func (f FilterSet) Includes(t archive.Type) bool {
	return f[t]
}

// All reports whether every category is included.
func (f FilterSet) All() bool {
	for _, t := range archive.Types {
		if !f[t] {
			return false
		}
	}
	return true
}

// None reports whether every category is excluded.
func (f FilterSet) None() bool {
	for _, t := range archive.Types {
		if f[t] {
			return false
		}
	}
	return true
}

// Enabled lists the included categories in display order.
func (f FilterSet) Enabled() []archive.Type {
	var out []archive.Type
	for _, t := range archive.Types {
		if f[t] {
			out = append(out, t)
		}
	}
	return out
}

// Toggle returns a copy of f with the flag for t flipped.
func (f FilterSet) Toggle(t archive.Type) FilterSet {
	out := f.Clone()
	out[t] = !out[t]
	return out
}

// Clone returns an independent copy of f with every category present.
func (f FilterSet) Clone() FilterSet {
	out := NoFilters()
	for _, t := range archive.Types {
		out[t] = f[t]
	}
	return out
}

// Filter keeps the records whose category is included, preserving order.
func Filter(all []archive.Archive, filters FilterSet) []archive.Archive {
	out := make([]archive.Archive, 0, len(all))
	for _, a := range all {
		if filters.Includes(a.Type) {
			out = append(out, a)
		}
	}
	return out
}

// Search filters, scores and ranks records for a free-text query.
//
// The wildcard query "*" and an empty or blank query return every filtered
// record with an equal score, in input order. Otherwise every query word is
// scored against the title, abstract, authors and keywords, and a record
// matches only when each word reaches the threshold in some field. Results are ordered matches first, then by descending score;
// equal scores keep their input order.
func Search(all []archive.Archive, query string, filters FilterSet, opts Options) []Result {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	filtered := Filter(all, filters)
	results := make([]Result, 0, len(filtered))

	q := strings.TrimSpace(query)
	if q == Wildcard {
		q = ""
	}
	terms := queryTerms(q)
	if len(terms) == 0 {
		for _, a := range filtered {
			results = append(results, Result{Archive: a, Score: neutralScore, Matched: true})
		}
		return results
	}

	for _, a := range filtered {
		r := scoreArchive(a, terms, threshold)
		r.Matched = r.Score >= threshold
		if r.Matched || opts.IncludeAll {
			results = append(results, r)
		}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		if a.Matched != b.Matched {
			if a.Matched {
				return -1
			}
			return 1
		}
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	return results
}

// scoreArchive keeps, per term, its best score over all fields. Highlights
// only cover terms that reached the threshold in that field.
func scoreArchive(a archive.Archive, terms [][]rune, threshold float64) Result {
	fields := []struct {
		name string
		text string
	}{
		{FieldTitle, a.Title},
		{FieldAbstract, a.Abstract},
		{FieldAuthors, strings.Join(a.DisplayAuthors(), ", ")},
		{FieldKeywords, strings.Join(a.Keywords, ", ")},
	}

	r := Result{Archive: a}
	best := make([]float64, len(terms))
	bestField := 0.0
	for _, f := range fields {
		var total float64
		var spans []Span
		for i, hit := range scoreTerms(terms, foldRunes(f.text)) {
			total += hit.score
			best[i] = max(best[i], hit.score)
			if hit.score >= threshold {
				spans = append(spans, hit.spans...)
			}
		}
		if len(spans) > 0 {
			if r.Highlights == nil {
				r.Highlights = make(map[string][]Span, len(fields))
			}
			r.Highlights[f.name] = mergeSpans(spans)
		}
		if mean := total / float64(len(terms)); mean > bestField {
			bestField = mean
			r.Field = f.name
		}
	}
	r.Score = combineTerms(best, threshold)
	return r
}

// MatchedCount returns how many results passed the threshold.
func MatchedCount(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Matched {
			n++
		}
	}
	return n
}
