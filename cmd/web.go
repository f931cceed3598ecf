package cmd

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/urfave/cli/v3"

	"github.com/msugsc-shs/research-archive/cmd/web/components"
	"github.com/msugsc-shs/research-archive/cmd/web/components/types"
	"github.com/msugsc-shs/research-archive/pkg/api"
	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/citation"
	"github.com/msugsc-shs/research-archive/pkg/config"
	"github.com/msugsc-shs/research-archive/pkg/log"
	"github.com/msugsc-shs/research-archive/pkg/search"
	"github.com/msugsc-shs/research-archive/pkg/version"
	"github.com/msugsc-shs/research-archive/pkg/warehouse"
)

//go:embed web/static/*
var staticFS embed.FS

// placeholderKeywords is how many keywords the search box suggests.
const placeholderKeywords = 3

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config and PORT)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides config and HOST)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"))
		},
	}
}

// WebServer holds the server configuration and dependencies
type WebServer struct {
	catalog   api.Catalog
	config    *config.Config
	apiServer *api.Server
	logger    *log.Logger

	// newRand returns the source used to pick placeholder keywords.
	newRand func() *rand.Rand
}

// NewWebServer creates the site for cfg on top of a catalog.
func NewWebServer(cat api.Catalog, cfg *config.Config) *WebServer {
	return &WebServer{
		catalog: cat,
		config:  cfg,
		apiServer: api.NewServer(cat, api.Options{
			PageSize:         cfg.Search.PageSize,
			IncludeUnmatched: cfg.Search.IncludeUnmatched,
			Threshold:        cfg.Search.Threshold,
			BaseURL:          cfg.Web.BaseURL,
		}),
		logger: log.ForService("web"),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// Routes registers the HTML pages, the JSON API and the static assets.
func (s *WebServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	s.apiServer.RegisterRoutes(mux)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /archive/{slug}", s.handleArchive)
	mux.HandleFunc("GET /static/", s.handleStatic)
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// Handler returns the routes wrapped in the middleware chain. The returned
// stop function ends the rate limiter's cleanup goroutine.
func (s *WebServer) Handler() (http.Handler, func()) {
	mws := []api.Middleware{
		api.RequestLogger(log.ForService("http"), s.config.RateLimit.TrustProxy),
		api.SecurityHeaders,
	}
	stop := func() {}
	if rl := s.config.RateLimit; rl.Enabled {
		limiter := api.NewRateLimiter(rl.Requests, rl.Window.Duration, rl.TrustProxy)
		mws = append(mws, limiter.Middleware)
		stop = limiter.Stop
	}
	mws = append(mws, api.Compress)

	return api.Chain(s.Routes(), mws...), stop
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host, port string) error {
	cfg, cat, closeCache, err := loadCatalog(configPath)
	if err != nil {
		return err
	}
	defer closeCache()

	if host != "" {
		cfg.Web.Host = host
	}
	if port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", port, err)
		}
		cfg.Web.Port = p
	}

	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	webServer := NewWebServer(cat, cfg)
	handler, stopLimiter := webServer.Handler()
	defer stopLimiter()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          webServer.logger.StdLogger(log.LevelError),
	}

	go watchSource(ctx, cfg, cat)

	if interval := cfg.Source.RefreshInterval.Duration; interval > 0 {
		wh := warehouse.NewWarehouse(warehouse.Config{RefreshInterval: interval}, cat)
		if err := wh.Start(ctx); err != nil {
			return fmt.Errorf("starting warehouse: %w", err)
		}
		defer wh.Stop()
	} else {
		// Warm the cache so the first visitor does not wait on the source.
		go func() {
			if _, err := cat.Archives(ctx); err != nil {
				webServer.logger.Warnf("Initial archive load failed: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		webServer.logger.Infof("Starting web server on http://%s", cfg.Addr())
		webServer.logger.Infof("Available endpoints:")
		webServer.logger.Infof("  Web UI:")
		webServer.logger.Infof("    GET / - Search and browse the archive")
		webServer.logger.Infof("    GET /archive/{slug} - Research paper details and citation")
		webServer.logger.Infof("  API:")
		webServer.logger.Infof("    GET /api/archives - Search archives")
		webServer.logger.Infof("    GET /api/archives/{slug} - Get one archive")
		webServer.logger.Infof("    GET /api/archives/{slug}/citation - Citation as bibtex, apa or csl")
		webServer.logger.Infof("    GET /api/keywords - List keywords")
		webServer.logger.Infof("    GET /health - Health check")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	webServer.logger.Infof("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// Web UI Handlers

// handleIndex lists the archive, filtered and searched by the query string
func (s *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	archives, err := s.catalog.Archives(r.Context())
	if err != nil {
		s.renderCatalogError(w, r, err)
		return
	}

	state := search.ParseState(r.URL.Query())
	opts := search.Options{
		Threshold:  s.config.Search.Threshold,
		IncludeAll: s.config.Search.IncludeUnmatched,
	}
	results := search.Search(archives, state.Query, state.Filters, opts)
	items, pageCount := search.Paginate(results, s.config.Search.PageSize, state.Page)
	state = state.SetPage(search.ClampPage(state.Page, pageCount))

	data := types.IndexData{
		PageData:     s.pageData(""),
		Query:        state.Query,
		Placeholder:  s.placeholder(archives),
		Filters:      filterToggles(state),
		Results:      make([]types.ResultView, len(items)),
		TotalCount:   len(results),
		MatchedCount: search.MatchedCount(results),
		CurrentPage:  state.Page,
		TotalPages:   pageCount,
		NoResults:    len(results) == 0,
	}
	data.NoMatches = strings.TrimSpace(state.Query) != "" && !data.NoResults && data.MatchedCount == 0

	if state.Page > 1 {
		data.PrevURL = pageURL(state.Prev())
	}
	if state.Page < pageCount {
		data.NextURL = pageURL(state.Next(pageCount))
	}

	for i, res := range items {
		data.Results[i] = resultView(res)
	}

	s.render(w, r, http.StatusOK, components.Index(data))
}

// handleArchive shows one research paper with its citation
func (s *WebServer) handleArchive(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	a, err := s.catalog.Find(r.Context(), slug)
	if err != nil {
		s.renderCatalogError(w, r, err)
		return
	}

	url := api.ArchiveURL(s.config.Web.BaseURL, r, slug)
	bibtex := citation.BibTeX(a, url)

	data := types.ArchiveData{
		PageData:     s.pageData(a.Title),
		Title:        a.Title,
		Year:         a.Year,
		Authors:      strings.Join(a.DisplayAuthors(), ", "),
		Type:         a.Type.Label(),
		Keywords:     a.Keywords,
		Abstract:     a.Abstract,
		URL:          url,
		CitationHTML: citation.APAHTML(a, url),
		CitationText: citation.APA(a, url),
		BibTeX:       bibtex,
	}

	s.render(w, r, http.StatusOK, components.Archive(data))
}

func (s *WebServer) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// Remove /static/ prefix and add web/static/ prefix for embedded filesystem
	filePath := "web/static/" + strings.TrimPrefix(path, "/static/")

	content, err := staticFS.ReadFile(filePath)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	switch {
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	case strings.HasSuffix(path, ".ico"):
		w.Header().Set("Content-Type", "image/x-icon")
	case strings.HasSuffix(path, ".png"):
		w.Header().Set("Content-Type", "image/png")
	}

	// Set cache headers for static assets
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := w.Write(content); err != nil {
		s.logger.Errorf("Error writing static content: %v", err)
	}
}

// Helper methods

func (s *WebServer) pageData(title string) types.PageData {
	return types.PageData{
		Title:   title,
		Version: version.APIVersion(),
	}
}

// placeholder suggests a few random keywords from the archives already
// loaded for the request.
func (s *WebServer) placeholder(archives []archive.Archive) string {
	keywords := archive.Keywords(archives)
	return search.Placeholder(search.SampleKeywords(keywords, placeholderKeywords, s.newRand()))
}

func (s *WebServer) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		s.logger.Errorf("Template error on %s: %v", r.URL.Path, err)
	}
}

func (s *WebServer) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := types.ErrorData{
		PageData: s.pageData(http.StatusText(status)),
		Status:   status,
		Message:  message,
	}
	s.render(w, r, status, components.Error(data))
}

// renderCatalogError maps catalog failures to an error page.
func (s *WebServer) renderCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, archive.ErrNotFound):
		s.renderError(w, r, http.StatusNotFound, "No research paper matches this address.")
	case errors.Is(err, archive.ErrSourceUnavailable):
		s.logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		s.renderError(w, r, http.StatusServiceUnavailable, "The research archive cannot be reached right now. Please try again later.")
	default:
		s.logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		s.renderError(w, r, http.StatusInternalServerError, "Something went wrong while loading the archive.")
	}
}

func filterToggles(state search.State) []types.FilterToggle {
	toggles := make([]types.FilterToggle, len(archive.Types))
	for i, t := range archive.Types {
		toggles[i] = types.FilterToggle{
			Type:    string(t),
			Label:   t.Label(),
			Enabled: state.Filters.Includes(t),
			URL:     pageURL(state.ToggleFilter(t)),
		}
	}
	return toggles
}

func resultView(res search.Result) types.ResultView {
	a := res.Archive
	return types.ResultView{
		URL:      "/archive/" + a.Slug,
		Title:    search.Segments(a.Title, res.Highlights[search.FieldTitle]),
		Year:     a.Year,
		Authors:  strings.Join(a.DisplayAuthors(), ", "),
		Type:     a.Type.Label(),
		Abstract: a.Abstract,
		Keywords: a.Keywords,
		Matched:  res.Matched,
	}
}

// pageURL is the listing address that restores state.
func pageURL(state search.State) string {
	if q := state.Encode(); q != "" {
		return "/?" + q
	}
	return "/"
}
