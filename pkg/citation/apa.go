package citation

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/msugsc-shs/research-archive/pkg/archive"
)

// apaMaxAuthors is the number of authors APA 7 lists before eliding.
const apaMaxAuthors = 20

var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("i")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^csl-[a-z-]+$`)).OnElements("div")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	return p
}()

// APA returns the APA 7 reference as plain text.
func APA(a archive.Archive, url string) string {
	return apa(a, url, func(s string) string { return s }, func(s string) string { return s })
}

// APAHTML returns the APA 7 reference as a sanitized HTML fragment with the
// title in italics and the URL linked.
func APAHTML(a archive.Archive, url string) string {
	raw := apa(a, url,
		html.EscapeString,
		func(s string) string { return "<i>" + s + "</i>" },
	)
	if url != "" {
		escaped := html.EscapeString(url)
		raw = strings.TrimSuffix(raw, escaped) + `<a href="` + escaped + `">` + escaped + `</a>`
	}
	return htmlPolicy.Sanitize(`<div class="csl-entry">` + raw + `</div>`)
}

func apa(a archive.Archive, url string, escape, italic func(string) string) string {
	year := a.Year
	if year == "" {
		year = "n.d."
	}
	title := italic(escape(a.Title)) + terminator(a.Title)

	var parts []string
	if authors := apaAuthors(names(a)); authors != "" {
		parts = append(parts, escape(authors)+terminator(authors), "("+escape(year)+").", title)
	} else {
		// Without authors the title moves into the author position.
		parts = append(parts, title, "("+escape(year)+").")
	}
	parts = append(parts, escape(Publisher)+".")
	if url != "" {
		parts = append(parts, escape(url))
	}
	return strings.Join(parts, " ")
}

// terminator returns the period that closes an element, unless it already
// ends in punctuation.
func terminator(s string) string {
	r, _ := utf8.DecodeLastRuneInString(s)
	switch r {
	case '.', '?', '!':
		return ""
	}
	return "."
}

func apaAuthors(ns []name) string {
	formatted := make([]string, len(ns))
	for i, n := range ns {
		formatted[i] = n.family
		if in := initials(n.given); in != "" {
			formatted[i] += ", " + in
		}
	}

	switch n := len(formatted); {
	case n == 0:
		return ""
	case n == 1:
		return formatted[0]
	case n == 2:
		return formatted[0] + ", & " + formatted[1]
	case n <= apaMaxAuthors:
		return strings.Join(formatted[:n-1], ", ") + ", & " + formatted[n-1]
	default:
		return strings.Join(formatted[:apaMaxAuthors-1], ", ") + ", . . . " + formatted[n-1]
	}
}

// initials abbreviates given names: "Maria Clara" becomes "M. C." and
// "Jean-Paul" becomes "J.-P.".
func initials(given string) string {
	var out []string
	for _, word := range strings.Fields(given) {
		var parts []string
		for _, part := range strings.Split(word, "-") {
			r, _ := utf8.DecodeRuneInString(part)
			if r == utf8.RuneError || !unicode.IsLetter(r) {
				continue
			}
			parts = append(parts, string(unicode.ToUpper(r))+".")
		}
		if len(parts) > 0 {
			out = append(out, strings.Join(parts, "-"))
		}
	}
	return strings.Join(out, " ")
}
