package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Span is a half-open rune range [Start, End) inside a field's text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

const (
	wordStartScore  = 1.0
	substringScore  = 0.9
	subsequenceBase = 0.85
	typoBase        = 0.8
	minTypoTermLen  = 4
	maxTypoLenDelta = 3
)

// foldRune lower-cases r and strips combining accents while keeping a one to
// one rune mapping with the input, so spans stay valid for the original text.
func foldRune(r rune) rune {
	if r < utf8.RuneSelf {
		return unicode.ToLower(r)
	}
	d := norm.NFD.String(string(r))
	base, _ := utf8.DecodeRuneInString(d)
	return unicode.ToLower(base)
}

func foldRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = foldRune(r)
	}
	return rs
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// queryTerms splits a query into folded terms.
func queryTerms(query string) [][]rune {
	fields := strings.Fields(query)
	terms := make([][]rune, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, foldRunes(f))
	}
	return terms
}

// termHit is how well one query term matched one field.
type termHit struct {
	score float64
	spans []Span
}

// scoreTerms scores every term against a folded field.
func scoreTerms(terms [][]rune, text []rune) []termHit {
	hits := make([]termHit, len(terms))
	if len(text) == 0 {
		return hits
	}
	for i, term := range terms {
		hits[i].score, hits[i].spans = scoreTerm(term, text)
	}
	return hits
}

// combineTerms turns the best score of each term into a record score. Every
// term has to reach the threshold somewhere for the record to match; the mean
// then ranks matching records. A record with a missing term scores its worst
// term, which keeps it below the threshold.
func combineTerms(best []float64, threshold float64) float64 {
	if len(best) == 0 {
		return 0
	}
	var total float64
	worst := best[0]
	for _, s := range best {
		total += s
		worst = min(worst, s)
	}
	if worst < threshold {
		return worst
	}
	return total / float64(len(best))
}

func scoreTerm(term, text []rune) (float64, []Span) {
	if len(term) == 0 || len(term) > len(text)+maxTypoLenDelta {
		return 0, nil
	}

	if s, sp, ok := substring(term, text); ok {
		return s, sp
	}

	best, bestSpans := subsequence(term, text)
	if len(term) >= minTypoTermLen {
		if s, sp := closestWord(term, text); s > best {
			best, bestSpans = s, sp
		}
	}
	return best, bestSpans
}

// substring prefers an occurrence that starts a word.
func substring(term, text []rune) (float64, []Span, bool) {
	found := -1
	for i := 0; i+len(term) <= len(text); i++ {
		if !hasPrefixAt(text, term, i) {
			continue
		}
		if i == 0 || !isWordRune(text[i-1]) {
			return wordStartScore, []Span{{i, i + len(term)}}, true
		}
		if found < 0 {
			found = i
		}
	}
	if found < 0 {
		return 0, nil, false
	}
	return substringScore, []Span{{found, found + len(term)}}, true
}

func hasPrefixAt(text, term []rune, at int) bool {
	for j, r := range term {
		if text[at+j] != r {
			return false
		}
	}
	return true
}

// subsequence finds the tightest window holding the term's runes in order.
func subsequence(term, text []rune) (float64, []Span) {
	bestWindow := 0
	var bestIdx []int
	idx := make([]int, len(term))
	for start := range text {
		if text[start] != term[0] {
			continue
		}
		idx[0] = start
		j := 1
		for i := start + 1; i < len(text) && j < len(term); i++ {
			if text[i] == term[j] {
				idx[j] = i
				j++
			}
		}
		if j < len(term) {
			// No later start can complete either.
			break
		}
		window := idx[len(idx)-1] - start + 1
		if bestWindow == 0 || window < bestWindow {
			bestWindow = window
			bestIdx = append(bestIdx[:0], idx...)
		}
	}
	if bestWindow == 0 {
		return 0, nil
	}

	spans := make([]Span, 0, len(bestIdx))
	for _, i := range bestIdx {
		spans = append(spans, Span{i, i + 1})
	}
	return subsequenceBase * float64(len(term)) / float64(bestWindow), mergeSpans(spans)
}

// closestWord scores the field word with the smallest edit distance.
func closestWord(term, text []rune) (float64, []Span) {
	best := 0.0
	var bestSpan []Span
	for start := 0; start < len(text); {
		if !isWordRune(text[start]) {
			start++
			continue
		}
		end := start
		for end < len(text) && isWordRune(text[end]) {
			end++
		}
		word := text[start:end]
		if abs(len(word)-len(term)) <= maxTypoLenDelta {
			d := levenshtein(term, word)
			sim := 1 - float64(d)/float64(max(len(term), len(word)))
			if s := typoBase * sim; s > best {
				best = s
				bestSpan = []Span{{start, end}}
			}
		}
		start = end
	}
	return best, bestSpan
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// mergeSpans sorts spans and joins the ones that touch or overlap.
func mergeSpans(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}
	sorted := slices.Clone(spans)
	slices.SortFunc(sorted, func(a, b Span) int { return cmp.Compare(a.Start, b.Start) })
	out := sorted[:1]
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// Segment is a piece of text flagged as matched or not, ready for rendering.
type Segment struct {
	Text  string
	Match bool
}

// Segments cuts text along the given spans.
func Segments(text string, spans []Span) []Segment {
	if len(spans) == 0 {
		return []Segment{{Text: text}}
	}
	rs := []rune(text)
	var out []Segment
	pos := 0
	for _, s := range spans {
		if s.Start < pos || s.End > len(rs) || s.Start >= s.End {
			continue
		}
		if s.Start > pos {
			out = append(out, Segment{Text: string(rs[pos:s.Start])})
		}
		out = append(out, Segment{Text: string(rs[s.Start:s.End]), Match: true})
		pos = s.End
	}
	if pos < len(rs) {
		out = append(out, Segment{Text: string(rs[pos:])})
	}
	return out
}
