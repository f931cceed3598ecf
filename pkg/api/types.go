package api

import (
	"time"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/search"
)

type ArchiveResponse struct {
	archive.Archive
	TypeLabel string `json:"type_label"`
	URL       string `json:"url"`
}

// ResultResponse is one ranked search result.
type ResultResponse struct {
	ArchiveResponse
	Score      float64                  `json:"score"`
	Matched    bool                     `json:"matched"`
	Field      string                   `json:"field,omitempty"`
	Highlights map[string][]search.Span `json:"highlights,omitempty"`
}

type ListArchivesResponse struct {
	Query        string           `json:"query"`
	Types        []archive.Type   `json:"types"`
	Results      []ResultResponse `json:"results"`
	Count        int              `json:"count"`
	TotalCount   int              `json:"total_count"`
	MatchedCount int              `json:"matched_count"`
	Page         int              `json:"page"`
	Limit        int              `json:"limit"`
	TotalPages   int              `json:"total_pages"`
	HasMore      bool             `json:"has_more"`
}

type KeywordsResponse struct {
	Keywords []string `json:"keywords"`
	Count    int      `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
