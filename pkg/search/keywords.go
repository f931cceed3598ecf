package search

import (
	"math/rand/v2"
	"strings"
)

// SampleKeywords picks up to n distinct keywords for search box suggestions.
// Duplicates are compared case-insensitively; the first spelling wins.
func SampleKeywords(keywords []string, n int, rnd *rand.Rand) []string {
	seen := make(map[string]bool, len(keywords))
	unique := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		key := strings.ToLower(k)
		if k == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, k)
	}

	if rnd != nil {
		rnd.Shuffle(len(unique), func(i, j int) {
			unique[i], unique[j] = unique[j], unique[i]
		})
	}
	if n >= 0 && len(unique) > n {
		unique = unique[:n]
	}
	return unique
}

// Placeholder builds the search box hint from a few keywords.
func Placeholder(samples []string) string {
	if len(samples) == 0 {
		return "Enter your search query"
	}
	return "Try: " + strings.Join(samples, ", ")
}
