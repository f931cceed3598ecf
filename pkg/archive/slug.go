package archive

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives the URL segment of a title: accents are stripped, letters
// are lower-cased and every run of other characters becomes a single dash.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, title)
	if err != nil {
		plain = title
	}

	var b strings.Builder
	b.Grow(len(plain))
	dash := false
	for _, r := range plain {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// Letters with no ASCII decomposition (ß, ø) are kept.
			b.WriteRune(unicode.ToLower(r))
			dash = false
		case r == '\'' || r == '’':
			// "Students' Perceptions" -> "students-perceptions"
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
