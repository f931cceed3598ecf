package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/archives", CorsMiddleware(http.HandlerFunc(s.HandleListArchives)))
	mux.Handle("GET /api/archives/{slug}", CorsMiddleware(http.HandlerFunc(s.HandleGetArchive)))
	mux.Handle("GET /api/archives/{slug}/citation", CorsMiddleware(http.HandlerFunc(s.HandleCitation)))
	mux.Handle("GET /api/keywords", CorsMiddleware(http.HandlerFunc(s.HandleKeywords)))
	mux.Handle("OPTIONS /api/", CorsMiddleware(http.NotFoundHandler()))
	mux.HandleFunc("GET /health", s.HandleHealth)
}
