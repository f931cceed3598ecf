// Package source reads the research catalogue from its upstream tabular
// store. Every adapter returns fully normalized archive records; failures
// wrap archive.ErrSourceUnavailable.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/msugsc-shs/research-archive/pkg/archive"
)

// Source fetches every record from the upstream store.
type Source interface {
	FetchAll(ctx context.Context) ([]archive.Archive, error)
}

// Columns every table must carry, matched case-insensitively.
const (
	ColumnTitle    = "title"
	ColumnYear     = "year"
	ColumnAbstract = "abstract"
	ColumnAuthors  = "authors"
	ColumnKeywords = "keywords"
	ColumnType     = "type"
)

var requiredColumns = []string{
	ColumnTitle,
	ColumnYear,
	ColumnAbstract,
	ColumnAuthors,
	ColumnKeywords,
	ColumnType,
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", archive.ErrSourceUnavailable, fmt.Sprintf(format, args...))
}

// Normalize turns a header row followed by data rows into records. Short
// rows are padded, blank rows skipped, and a single unknown type fails the
// whole table.
func Normalize(rows [][]string) ([]archive.Archive, error) {
	if len(rows) == 0 {
		return nil, unavailable("table is empty")
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, unavailable("missing columns: %s", strings.Join(missing, ", "))
	}

	archives := make([]archive.Archive, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		cell := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		t, err := archive.ParseType(cell(ColumnType))
		if err != nil {
			// n+2: one for the header, one for 1-based row numbers.
			return nil, unavailable("row %d: %v", n+2, err)
		}

		title := cell(ColumnTitle)
		archives = append(archives, archive.Archive{
			Slug:     archive.Slugify(title),
			Title:    title,
			Year:     cell(ColumnYear),
			Abstract: cell(ColumnAbstract),
			Authors:  SplitAuthors(cell(ColumnAuthors)),
			Keywords: SplitKeywords(cell(ColumnKeywords)),
			Type:     t,
		})
	}
	return archives, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// SplitKeywords splits a comma separated cell, dropping empty entries.
func SplitKeywords(cell string) []string {
	return splitTrim(cell, ",")
}

// SplitAuthors splits an authors cell. Cells holding "Last, First" names
// separate authors with semicolons; otherwise commas separate them.
func SplitAuthors(cell string) []string {
	if strings.Contains(cell, ";") {
		return splitTrim(cell, ";")
	}
	return splitTrim(cell, ",")
}

func splitTrim(cell, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(cell, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
