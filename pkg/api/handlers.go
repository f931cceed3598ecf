package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/citation"
	"github.com/msugsc-shs/research-archive/pkg/search"
	"github.com/msugsc-shs/research-archive/pkg/version"
)

const maxLimit = 100

func (s *Server) archiveResponse(r *http.Request, a archive.Archive) ArchiveResponse {
	return ArchiveResponse{
		Archive:   a,
		TypeLabel: a.Type.Label(),
		URL:       ArchiveURL(s.opts.BaseURL, r, a.Slug),
	}
}

// HandleListArchives searches, filters and paginates the archive.
//
// Query parameters: q, type (repeatable), f, page (see search.ParseState),
// limit (1-100, defaults to the page size) and all (true/false, overrides
// the configured include-unmatched mode).
func (s *Server) HandleListArchives(w http.ResponseWriter, r *http.Request) {
	archives, err := s.catalog.Archives(r.Context())
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}

	params := r.URL.Query()
	state := search.ParseState(params)

	limit := s.opts.PageSize
	if limitStr := params.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = min(parsed, maxLimit)
		}
	}

	opts := search.Options{Threshold: s.opts.Threshold, IncludeAll: s.opts.IncludeUnmatched}
	if all, err := strconv.ParseBool(params.Get("all")); err == nil {
		opts.IncludeAll = all
	}

	results := search.Search(archives, state.Query, state.Filters, opts)
	items, pageCount := search.Paginate(results, limit, state.Page)
	page := search.ClampPage(state.Page, pageCount)

	response := ListArchivesResponse{
		Query:        state.Query,
		Types:        state.Filters.Enabled(),
		Results:      make([]ResultResponse, len(items)),
		Count:        len(items),
		TotalCount:   len(results),
		MatchedCount: search.MatchedCount(results),
		Page:         page,
		Limit:        limit,
		TotalPages:   pageCount,
		HasMore:      page < pageCount,
	}
	for i, res := range items {
		response.Results[i] = ResultResponse{
			ArchiveResponse: s.archiveResponse(r, res.Archive),
			Score:           res.Score,
			Matched:         res.Matched,
			Field:           res.Field,
			Highlights:      res.Highlights,
		}
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleGetArchive(w http.ResponseWriter, r *http.Request) {
	a, err := s.catalog.Find(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.archiveResponse(r, a))
}

// HandleCitation returns the citation of one archive as bibtex (default),
// apa or csl, selected by the format parameter.
func (s *Server) HandleCitation(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	a, err := s.catalog.Find(r.Context(), slug)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}

	body, contentType, err := citation.Render(a, ArchiveURL(s.opts.BaseURL, r, slug), r.URL.Query().Get("format"))
	if errors.Is(err, citation.ErrUnknownFormat) {
		s.writeError(w, http.StatusBadRequest, "Invalid format", err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Citation failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		s.logger.Errorf("writing citation: %v", err)
	}
}

func (s *Server) HandleKeywords(w http.ResponseWriter, r *http.Request) {
	keywords, err := s.catalog.Keywords(r.Context())
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, KeywordsResponse{
		Keywords: keywords,
		Count:    len(keywords),
	})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
