package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/log"
)

const (
	DefaultSheetsURL = "https://sheets.googleapis.com"
	DefaultTokenURL  = "https://oauth2.googleapis.com/token"
	DefaultRange     = "Archive!A:F"

	sheetsScope = "https://www.googleapis.com/auth/spreadsheets.readonly"
)

// Credentials identify the Google service account allowed to read the sheet.
type Credentials struct {
	ProjectID    string
	PrivateKeyID string
	PrivateKey   string
	ClientEmail  string
}

// SheetsConfig configures the Google Sheets adapter.
type SheetsConfig struct {
	SpreadsheetID string
	Range         string
	Credentials   Credentials

	// BaseURL and TokenURL default to the Google endpoints.
	BaseURL  string
	TokenURL string

	// HTTPClient carries both the token exchange and the values request.
	// Defaults to a client with a 30 second timeout.
	HTTPClient *http.Client
}

// Sheets reads the archive from a Google spreadsheet using a service
// account.
type Sheets struct {
	cfg    SheetsConfig
	jwt    *jwt.Config
	logger *log.Logger
}

type valueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

func NewSheets(cfg SheetsConfig) (*Sheets, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if cfg.Credentials.ClientEmail == "" || cfg.Credentials.PrivateKey == "" {
		return nil, fmt.Errorf("service account client email and private key are required")
	}
	if cfg.Range == "" {
		cfg.Range = DefaultRange
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSheetsURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Sheets{
		cfg: cfg,
		jwt: &jwt.Config{
			Email:        cfg.Credentials.ClientEmail,
			PrivateKey:   []byte(PEMKey(cfg.Credentials.PrivateKey)),
			PrivateKeyID: cfg.Credentials.PrivateKeyID,
			Scopes:       []string{sheetsScope},
			TokenURL:     cfg.TokenURL,
		},
		logger: log.ForService("sheets"),
	}, nil
}

// PEMKey restores the newlines of a private key kept on a single line, as
// environment files usually store it.
func PEMKey(key string) string {
	key = strings.Trim(key, `"`)
	return strings.ReplaceAll(key, `\n`, "\n")
}

func (s *Sheets) valuesURL() string {
	return fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		strings.TrimRight(s.cfg.BaseURL, "/"),
		url.PathEscape(s.cfg.SpreadsheetID),
		url.PathEscape(s.cfg.Range))
}

func (s *Sheets) FetchAll(ctx context.Context) ([]archive.Archive, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.cfg.HTTPClient)
	client := s.jwt.Client(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.valuesURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, unavailable("fetching sheet values: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable("sheets API request failed with status %d", resp.StatusCode)
	}

	var vr valueRange
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, unavailable("decoding sheet values: %v", err)
	}

	archives, err := Normalize(cellStrings(vr.Values))
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("fetched %d archives from %s in %s", len(archives), vr.Range, time.Since(start))
	return archives, nil
}

func cellStrings(values [][]any) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			switch v := cell.(type) {
			case string:
				rows[i][j] = v
			case nil:
			default:
				rows[i][j] = fmt.Sprint(v)
			}
		}
	}
	return rows
}
