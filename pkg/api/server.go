package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/log"
	"github.com/msugsc-shs/research-archive/pkg/search"
)

// Catalog is the read side of the archive used by the handlers.
type Catalog interface {
	Archives(ctx context.Context) ([]archive.Archive, error)
	Keywords(ctx context.Context) ([]string, error)
	Find(ctx context.Context, slug string) (archive.Archive, error)
}

// Options tune the listing endpoints.
type Options struct {
	PageSize         int
	IncludeUnmatched bool
	Threshold        float64
	// BaseURL is the public site address used in citations. Empty uses
	// the request host.
	BaseURL string
}

type Server struct {
	catalog Catalog
	opts    Options
	logger  *log.Logger
}

func NewServer(catalog Catalog, opts Options) *Server {
	if opts.PageSize <= 0 {
		opts.PageSize = search.DefaultPageSize
	}
	if opts.Threshold <= 0 {
		opts.Threshold = search.DefaultThreshold
	}
	return &Server{
		catalog: catalog,
		opts:    opts,
		logger:  log.ForService("api"),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:   error,
		Message: message,
	})
}

// writeCatalogError maps catalog failures to a status code.
func (s *Server) writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, archive.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "Archive not found", "No archive with slug '"+r.PathValue("slug")+"'")
	case errors.Is(err, archive.ErrSourceUnavailable):
		s.logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		s.writeError(w, http.StatusServiceUnavailable, "Archive unavailable", "The research archive cannot be reached right now")
	default:
		s.logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		s.writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

// ArchiveURL returns the public address of an archive detail page.
func ArchiveURL(baseURL string, r *http.Request, slug string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + "/archive/" + slug
}
