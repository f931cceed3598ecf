// Package citation renders archive records as bibliography entries.
//
// Authors are taken in display order ("First Last"); the last token of each
// name is the family name. Names that cannot be split that way (a single
// token, or a trailing suffix such as "Jr.") are left out of every format.
package citation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/msugsc-shs/research-archive/pkg/archive"
)

// Publisher is credited on every entry.
const Publisher = "MSU-GSC SHS Research Archive"

// Format names accepted by Render.
const (
	FormatBibTeX = "bibtex"
	FormatAPA    = "apa"
	FormatCSL    = "csl"
)

// Formats lists the accepted formats.
var Formats = []string{FormatBibTeX, FormatAPA, FormatCSL}

var ErrUnknownFormat = errors.New("unknown citation format")

// Render returns the entry for a in the named format, plus the media type
// of the result.
func Render(a archive.Archive, url, format string) (body, contentType string, err error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatBibTeX, "":
		return BibTeX(a, url), "application/x-bibtex; charset=utf-8", nil
	case FormatAPA:
		return APA(a, url), "text/plain; charset=utf-8", nil
	case FormatCSL:
		out, err := CSL(a, url)
		if err != nil {
			return "", "", err
		}
		return out, "application/yaml; charset=utf-8", nil
	default:
		return "", "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

type name struct {
	family string
	given  string
}

// names returns the citable authors of a.
func names(a archive.Archive) []name {
	var out []name
	for _, display := range a.DisplayAuthors() {
		family, given, ok := archive.SplitCitationName(display)
		if !ok {
			continue
		}
		out = append(out, name{family: family, given: given})
	}
	return out
}
