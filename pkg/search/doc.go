// Package search implements the archive's search pipeline: category
// filtering, fuzzy matching, ranking and pagination.
//
// # Overview
//
// The whole catalogue is a few hundred records, so every search runs in
// memory over the full record set handed in by the caller. The package has no
// I/O and no shared state; every function is safe for concurrent use.
//
// # Pipeline
//
//  1. Filter: keep the records whose category is on in the FilterSet.
//     A FilterSet with every flag off yields no results.
//  2. Match: score the query against title, abstract, authors and keywords.
//     The best field wins. A record matches when that score reaches the
//     threshold (DefaultThreshold, 0.5).
//  3. Rank: matches first, then by descending score. Equal scores keep the
//     input order.
//  4. Paginate: Paginate slices the ranked list into fixed-size pages.
//
// The wildcard query "*" and an empty query skip matching: every filtered
// record is returned with the same neutral score.
//
// # Scoring
//
// Matching is case-insensitive and ignores accents. The query is split on
// whitespace and each term scores against a field as the best of:
//
//   - substring: 1.0 when the term starts a word, 0.9 inside a word
//   - subsequence: 0.85 * len(term) / width of the tightest window
//   - typo (terms of 4+ letters): 0.8 * similarity to the closest word,
//     using Levenshtein distance
//
// The field score is the mean of its term scores.
//
// # Include all
//
// With Options.IncludeAll the records that fail the threshold are still
// returned, flagged with Matched = false and ranked after every match. The
// web listing uses this so a query never hides what the filters selected.
//
// # UI state
//
// State carries the query, the filters and the page between requests. Its
// transitions (SetQuery, ToggleFilter, SetPage, Prev, Next) return new
// values; Values and ParseState round-trip it through a URL query string.
//
// # Usage
//
//	state := search.ParseState(r.URL.Query())
//	results := search.Search(archives, state.Query, state.Filters, search.Options{IncludeAll: true})
//	page, pageCount := search.Paginate(results, search.DefaultPageSize, state.Page)
package search
