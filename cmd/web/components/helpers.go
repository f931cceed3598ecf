package components

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/msugsc-shs/research-archive/pkg/search"
)

// Highlight renders text segments, wrapping matched pieces in <mark>.
func Highlight(segments []search.Segment) templ.Component {
	return component(func(ctx context.Context, h *html) {
		for _, s := range segments {
			if s.Match {
				h.raw("<mark>")
				h.text(s.Text)
				h.raw("</mark>")
				continue
			}
			h.text(s.Text)
		}
	})
}

// Truncate shortens s to at most n runes, cutting at a word boundary when
// one is close.
func Truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	cut := string(rs[:n])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// Plural returns singular when n is 1 and plural otherwise.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
