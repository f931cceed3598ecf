package archive

import (
	"strings"
)

var nameSuffixes = map[string]bool{
	"jr": true, "jr.": true, "sr": true, "sr.": true,
	"ii": true, "iii": true, "iv": true,
}

// DisplayName turns a stored "Last, First" name into "First Last". Names
// without a comma are already in display order and are returned trimmed.
func DisplayName(name string) string {
	name = strings.TrimSpace(name)
	last, first, ok := strings.Cut(name, ",")
	if !ok {
		return name
	}
	last, first = strings.TrimSpace(last), strings.TrimSpace(first)
	if last == "" || first == "" {
		return strings.Trim(name, ", ")
	}
	return first + " " + last
}

// CitationName turns a "First [Middle] Last" display name into the
// "Last, First [Middle]" form used by bibliographies. The last token is the
// family name. Single-token names and names ending in a generational suffix
// are not parsed and report false; citations drop them.
func CitationName(name string) (string, bool) {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return "", false
	}
	family := fields[len(fields)-1]
	if nameSuffixes[strings.ToLower(family)] || strings.HasSuffix(fields[len(fields)-2], ",") {
		return "", false
	}
	return family + ", " + strings.Join(fields[:len(fields)-1], " "), true
}

// SplitCitationName returns the family and given parts of a display name,
// following the same rules as CitationName.
func SplitCitationName(name string) (family, given string, ok bool) {
	c, ok := CitationName(name)
	if !ok {
		return "", "", false
	}
	family, given, _ = strings.Cut(c, ", ")
	return family, given, true
}
