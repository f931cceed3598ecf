package citation

import (
	"strings"

	"github.com/msugsc-shs/research-archive/pkg/archive"
)

var bibtexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"{", `\{`,
	"}", `\}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
)

// BibTeX returns a @misc entry keyed by the record slug.
func BibTeX(a archive.Archive, url string) string {
	authors := make([]string, 0, len(a.Authors))
	for _, n := range names(a) {
		authors = append(authors, n.family+", "+n.given)
	}

	key := a.Slug
	if key == "" {
		key = "research"
	}

	var b strings.Builder
	b.WriteString("@misc{" + key + ",\n")
	field := func(k, v string) {
		b.WriteString("  " + k + " = {" + v + "},\n")
	}
	field("author", bibtexEscaper.Replace(strings.Join(authors, " and ")))
	field("title", bibtexEscaper.Replace(a.Title))
	field("year", bibtexEscaper.Replace(a.Year))
	if url != "" {
		field("url", url)
	}
	field("publisher", Publisher)
	b.WriteString("}\n")
	return b.String()
}
