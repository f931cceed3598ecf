// Package archive defines the research record served by the site and the
// small set of transforms applied to it: slugs, category labels and author
// name formatting.
package archive

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceUnavailable is returned when the upstream spreadsheet cannot be
	// reached or returns rows that cannot be normalized.
	ErrSourceUnavailable = errors.New("record source unavailable")

	// ErrNotFound is returned when no record matches a slug.
	ErrNotFound = errors.New("record not found")
)

// Type is the coarse classification of a research paper.
type Type string

const (
	TypePR1      Type = "pr1"
	TypePR2      Type = "pr2"
	TypeCapstone Type = "capstone"
	TypeResPro   Type = "respro"
)

// Types lists every category in display order.
var Types = []Type{TypePR1, TypePR2, TypeCapstone, TypeResPro}

var typeLabels = map[Type]string{
	TypePR1:      "Practical Research 1 (Qualitative)",
	TypePR2:      "Practical Research 2 (Quantitative)",
	TypeCapstone: "Capstone Project (STEM)",
	TypeResPro:   "Research Project (ABM, HUMSS)",
}

// Label returns the human readable name of the category.
func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t belongs to the closed category set.
func (t Type) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// ParseType converts a spreadsheet cell into a Type. Matching ignores case and
// surrounding whitespace.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown research type %q", s)
	}
	return t, nil
}

// Archive is one research paper in the catalogue.
type Archive struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Year     string   `json:"year"`
	Abstract string   `json:"abstract"`
	Authors  []string `json:"authors"`
	Keywords []string `json:"keywords"`
	Type     Type     `json:"type"`
}

// DisplayAuthors returns the authors formatted as "First Last".
func (a Archive) DisplayAuthors() []string {
	out := make([]string, len(a.Authors))
	for i, name := range a.Authors {
		out[i] = DisplayName(name)
	}
	return out
}

// Find returns the first archive with the given slug.
func Find(archives []Archive, slug string) (Archive, error) {
	for _, a := range archives {
		if a.Slug == slug {
			return a, nil
		}
	}
	return Archive{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
}

// Keywords flattens the keywords of every archive, keeping order and
// repetitions.
func Keywords(archives []Archive) []string {
	var out []string
	for _, a := range archives {
		out = append(out, a.Keywords...)
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// DuplicateSlugs returns the slugs shared by more than one archive.
func DuplicateSlugs(archives []Archive) []string {
	seen := make(map[string]int, len(archives))
	var dups []string
	for _, a := range archives {
		seen[a.Slug]++
		if seen[a.Slug] == 2 {
			dups = append(dups, a.Slug)
		}
	}
	return dups
}
