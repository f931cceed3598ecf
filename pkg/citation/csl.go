package citation

import (
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/msugsc-shs/research-archive/pkg/archive"
)

// CSLItem is a bibliography entry in CSL-YAML form, readable by Pandoc and
// reference managers.
type CSLItem struct {
	ID        string    `yaml:"id"`
	Type      string    `yaml:"type"`
	Title     string    `yaml:"title"`
	Author    []CSLName `yaml:"author,omitempty"`
	Abstract  string    `yaml:"abstract,omitempty"`
	Keyword   string    `yaml:"keyword,omitempty"`
	Genre     string    `yaml:"genre,omitempty"`
	Issued    *CSLDate  `yaml:"issued,omitempty"`
	Publisher string    `yaml:"publisher"`
	URL       string    `yaml:"URL,omitempty"`
}

type CSLName struct {
	Family string `yaml:"family"`
	Given  string `yaml:"given,omitempty"`
}

type CSLDate struct {
	DateParts [][]int `yaml:"date-parts,omitempty"`
	Literal   string  `yaml:"literal,omitempty"`
}

// NewCSLItem converts a record. Years that are not plain numbers are kept
// as literal dates.
func NewCSLItem(a archive.Archive, url string) CSLItem {
	item := CSLItem{
		ID:        a.Slug,
		Type:      "document",
		Title:     a.Title,
		Abstract:  a.Abstract,
		Keyword:   strings.Join(a.Keywords, ", "),
		Genre:     a.Type.Label(),
		Publisher: Publisher,
		URL:       url,
	}
	for _, n := range names(a) {
		item.Author = append(item.Author, CSLName{Family: n.family, Given: n.given})
	}
	if year := strings.TrimSpace(a.Year); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			item.Issued = &CSLDate{DateParts: [][]int{{y}}}
		} else {
			item.Issued = &CSLDate{Literal: year}
		}
	}
	return item
}

// CSL returns the record as a one-item CSL-YAML list.
func CSL(a archive.Archive, url string) (string, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode([]CSLItem{NewCSLItem(a, url)}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}
