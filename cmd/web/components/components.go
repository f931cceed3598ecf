// Package components renders the site's HTML pages as templ components.
// Pages render their content as the children of Layout.
package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/msugsc-shs/research-archive/cmd/web/components/types"
)

// html writes markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s escaped for element content or a quoted attribute value.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// url writes a sanitized, escaped href value.
func (h *html) url(s string) {
	h.text(string(templ.URL(s)))
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

// component adapts a writer function to templ.Component.
func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}

// Layout is the page shell shared by every page. The page content is
// rendered from the templ children in ctx.
func Layout(page types.PageData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		children := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)

		h.raw(`<!DOCTYPE html><html lang="en"><head>`)
		h.raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		if page.Title != "" {
			h.text(page.Title)
			h.raw(" | ")
		}
		h.raw(`SHS Research Archive</title>`)
		h.raw(`<meta name="description" content="Search the research papers of the MSU-GSC Senior High School.">`)
		h.raw(`<link rel="preconnect" href="https://fonts.googleapis.com">`)
		h.raw(`<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>`)
		h.raw(`<link rel="stylesheet" href="https://fonts.googleapis.com/css2?family=Inter:wght@400;600;700&amp;display=swap">`)
		h.raw(`<link rel="stylesheet" href="/static/style.css">`)
		h.raw(`<script src="/static/app.js" defer></script>`)
		h.raw(`</head><body>`)
		h.raw(`<header class="site-header"><a href="/" class="brand">SHS Research Archive</a></header>`)
		h.raw(`<main class="container">`)
		h.render(ctx, children)
		h.raw(`</main><footer class="site-footer">MSU-GSC Senior High School`)
		if page.Version != "" {
			h.raw(" · v")
			h.text(page.Version)
		}
		h.raw(`</footer></body></html>`)
	})
}

func withLayout(page types.PageData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Layout(page).Render(templ.WithChildren(ctx, content), w)
	})
}

// Index is the listing and search page.
func Index(data types.IndexData) templ.Component {
	return withLayout(data.PageData, templ.Join(
		searchForm(data),
		filterNav(data.Filters),
		resultList(data),
	))
}

func searchForm(data types.IndexData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<form class="search" method="get" action="/" role="search">`)
		h.raw(`<input type="search" name="q" value="`)
		h.text(data.Query)
		h.raw(`" placeholder="`)
		h.text(data.Placeholder)
		h.raw(`" aria-label="Search the archive" autofocus>`)
		for _, f := range data.Filters {
			if f.Enabled {
				h.raw(`<input type="hidden" name="type" value="`)
				h.text(f.Type)
				h.raw(`">`)
			}
		}
		h.raw(`<input type="hidden" name="f" value="1">`)
		h.raw(`<button type="submit">Search</button></form>`)
	})
}

func filterNav(filters []types.FilterToggle) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<nav class="filters" aria-label="Research types">`)
		for _, f := range filters {
			h.raw(`<a href="`)
			h.url(f.URL)
			h.raw(`" class="filter`)
			if f.Enabled {
				h.raw(` active`)
			}
			h.raw(`" aria-pressed="`)
			h.raw(strconv.FormatBool(f.Enabled))
			h.raw(`">`)
			h.text(f.Label)
			h.raw(`</a>`)
		}
		h.raw(`</nav>`)
	})
}

func resultList(data types.IndexData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		if data.NoResults {
			h.raw(`<p class="empty">No results</p>`)
			return
		}

		switch {
		case data.NoMatches:
			h.raw(`<p class="notice">Nothing matched “`)
			h.text(data.Query)
			h.raw(`”. Showing every research paper instead.</p>`)
		case data.Query != "":
			h.raw(`<p class="summary">`)
			h.raw(strconv.Itoa(data.MatchedCount))
			h.raw(" ")
			h.raw(Plural(data.MatchedCount, "result", "results"))
			h.raw(` for “`)
			h.text(data.Query)
			h.raw(`”</p>`)
		}

		h.raw(`<ul class="results">`)
		for _, res := range data.Results {
			h.render(ctx, resultCard(res))
		}
		h.raw(`</ul>`)

		h.render(ctx, pagination(data))
	})
}

func resultCard(res types.ResultView) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<li class="card`)
		if !res.Matched {
			h.raw(` unmatched`)
		}
		h.raw(`"><a href="`)
		h.url(res.URL)
		h.raw(`" class="card-title">`)
		h.render(ctx, Highlight(res.Title))
		h.raw(`</a>`)
		h.render(ctx, meta(res.Authors, res.Year, res.Type))
		if res.Abstract != "" {
			h.raw(`<p class="snippet">`)
			h.text(Truncate(res.Abstract, snippetLength))
			h.raw(`</p>`)
		}
		h.render(ctx, badges(res.Keywords))
		h.raw(`</li>`)
	})
}

// snippetLength is how many runes of the abstract a result card shows.
const snippetLength = 180

func meta(authors, year, typeLabel string) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<div class="meta"><span class="authors">`)
		h.text(authors)
		h.raw(`</span><span class="year">`)
		h.text(year)
		h.raw(`</span></div><div class="type">`)
		h.text(typeLabel)
		h.raw(`</div>`)
	})
}

func badges(keywords []string) templ.Component {
	return component(func(ctx context.Context, h *html) {
		if len(keywords) == 0 {
			return
		}
		h.raw(`<div class="badges">`)
		for _, k := range keywords {
			h.raw(`<span class="badge">`)
			h.text(k)
			h.raw(`</span>`)
		}
		h.raw(`</div>`)
	})
}

func pagination(data types.IndexData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		if data.TotalPages <= 1 {
			return
		}
		h.raw(`<nav class="pagination" aria-label="Pages">`)
		if data.PrevURL != "" {
			h.raw(`<a href="`)
			h.url(data.PrevURL)
			h.raw(`" rel="prev">Previous</a>`)
		} else {
			h.raw(`<span class="disabled">Previous</span>`)
		}
		h.raw(`<span class="page">Page `)
		h.raw(strconv.Itoa(data.CurrentPage))
		h.raw(` of `)
		h.raw(strconv.Itoa(data.TotalPages))
		h.raw(`</span>`)
		if data.NextURL != "" {
			h.raw(`<a href="`)
			h.url(data.NextURL)
			h.raw(`" rel="next">Next</a>`)
		} else {
			h.raw(`<span class="disabled">Next</span>`)
		}
		h.raw(`</nav>`)
	})
}

// Archive is the detail page of one research paper.
func Archive(data types.ArchiveData) templ.Component {
	return withLayout(data.PageData, component(func(ctx context.Context, h *html) {
		h.raw(`<a href="/" class="back">← Back to Search</a>`)
		h.raw(`<article class="card detail"><h1>`)
		h.text(data.Title)
		h.raw(`</h1>`)
		h.render(ctx, meta(data.Authors, data.Year, data.Type))
		h.render(ctx, badges(data.Keywords))

		h.raw(`<section><h2>Abstract</h2>`)
		if data.Abstract != "" {
			h.raw(`<p class="abstract">`)
			h.text(data.Abstract)
			h.raw(`</p>`)
		} else {
			h.raw(`<p class="abstract empty">No abstract available.</p>`)
		}
		h.raw(`</section>`)

		h.raw(`<section><h2>Recommended Citation</h2><div class="citation"><div class="citation-text">`)
		// CitationHTML is sanitized when it is built.
		h.render(ctx, templ.Raw(data.CitationHTML))
		h.raw(`</div>`)
		h.render(ctx, copyButton(data.CitationText, "Copy citation"))
		h.raw(`</div><details class="bibtex"><summary>BibTeX</summary><pre>`)
		h.text(data.BibTeX)
		h.raw(`</pre>`)
		h.render(ctx, copyButton(data.BibTeX, "Copy BibTeX"))
		h.raw(`</details></section></article>`)
	}))
}

func copyButton(value, label string) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<button type="button" class="copy" data-copy="`)
		h.text(value)
		h.raw(`" aria-label="`)
		h.text(label)
		h.raw(`">Copy</button>`)
	})
}

// Error renders the not found and unavailable pages.
func Error(data types.ErrorData) templ.Component {
	return withLayout(data.PageData, component(func(ctx context.Context, h *html) {
		h.raw(`<section class="card error"><h1>`)
		h.raw(strconv.Itoa(data.Status))
		h.raw(`</h1><p>`)
		h.text(data.Message)
		h.raw(`</p><a href="/" class="back">← Back to Search</a></section>`)
	}))
}
