package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

const appName = "shs-archive"

// Source types.
const (
	SourceSheets = "sheets"
	SourceCSV    = "csv"
)

// Cache drivers, mirrored from pkg/cache so the config does not import it.
const (
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
	CacheMemory = "memory"
)

type Config struct {
	StorageDir string          `toml:"storage_dir"`
	Web        WebConfig       `toml:"web"`
	Search     SearchConfig    `toml:"search"`
	Cache      CacheConfig     `toml:"cache"`
	Source     SourceConfig    `toml:"source"`
	RateLimit  RateLimitConfig `toml:"rate_limit"`
}

type WebConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// BaseURL is the public address used in citation links. When empty the
	// request host is used.
	BaseURL string `toml:"base_url"`
}

type SearchConfig struct {
	PageSize int `toml:"page_size"`
	// IncludeUnmatched keeps records that fail the relevance threshold,
	// ranked after every match.
	IncludeUnmatched bool    `toml:"include_unmatched"`
	Threshold        float64 `toml:"threshold"`
}

type CacheConfig struct {
	// Driver is redis, sqlite or memory. Empty picks redis when a URL is
	// set and sqlite otherwise.
	Driver  string   `toml:"driver"`
	URL     string   `toml:"url"`
	Prefix  string   `toml:"prefix"`
	Path    string   `toml:"path"`
	Size    int      `toml:"size"`
	TTL     Duration `toml:"ttl"`
	Timeout Duration `toml:"timeout"`
}

type SourceConfig struct {
	// Type is sheets or csv. Empty picks sheets when a spreadsheet id is
	// set and csv otherwise.
	Type          string            `toml:"type"`
	SpreadsheetID string            `toml:"spreadsheet_id"`
	Range         string            `toml:"range"`
	Credentials   CredentialsConfig `toml:"credentials"`
	CSVPath       string            `toml:"csv_path"`
	// Watch refreshes the cache whenever the CSV file changes.
	Watch   bool     `toml:"watch"`
	Timeout Duration `toml:"timeout"`
	// RefreshInterval reloads the archive in the background. Zero leaves
	// refreshing to cache expiry.
	RefreshInterval Duration `toml:"refresh_interval"`
}

type CredentialsConfig struct {
	ProjectID    string `toml:"project_id"`
	PrivateKeyID string `toml:"private_key_id"`
	PrivateKey   string `toml:"private_key"`
	ClientEmail  string `toml:"client_email"`
}

type RateLimitConfig struct {
	Enabled    bool     `toml:"enabled"`
	Requests   int      `toml:"requests"`
	Window     Duration `toml:"window"`
	// TrustProxy keys clients on X-Forwarded-For / X-Real-IP. Only enable it
	// behind a reverse proxy that sets those headers.
	TrustProxy bool `toml:"trust_proxy"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Defaults returns the configuration used when no file exists. StorageDir is
// filled in by LoadConfig.
func Defaults() *Config {
	return &Config{
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Search: SearchConfig{
			PageSize:         5,
			IncludeUnmatched: true,
			Threshold:        0.5,
		},
		Cache: CacheConfig{
			Prefix:  "shs:",
			Size:    128,
			TTL:     Duration{time.Hour},
			Timeout: Duration{2 * time.Second},
		},
		Source: SourceConfig{
			Range:   "Archive!A:F",
			Timeout: Duration{30 * time.Second},
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 100,
			Window:   Duration{time.Minute},
		},
	}
}

// LoadConfig reads configPath over the defaults and applies environment
// overrides. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	return Load(configPath, os.LookupEnv)
}

// Load is LoadConfig with an explicit environment lookup.
func Load(configPath string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshaling config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is
// ignored.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment variables the site has
// always been deployed with.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("HOST", &c.Web.Host)
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Web.Port = port
	}
	str("BASE_URL", &c.Web.BaseURL)
	str("REDIS_URL", &c.Cache.URL)
	str("SHEET_ID", &c.Source.SpreadsheetID)
	str("PROJECT_ID", &c.Source.Credentials.ProjectID)
	str("PRIVATE_KEY_ID", &c.Source.Credentials.PrivateKeyID)
	str("PRIVATE_KEY", &c.Source.Credentials.PrivateKey)
	str("CLIENT_EMAIL", &c.Source.Credentials.ClientEmail)
	str("ARCHIVE_CSV", &c.Source.CSVPath)
	return nil
}

// resolve fills derived settings and validates the result.
func (c *Config) resolve() error {
	if c.StorageDir == "" {
		dir, err := GetDefaultStorageDir()
		if err != nil {
			return fmt.Errorf("getting default storage directory: %w", err)
		}
		c.StorageDir = dir
	}

	if c.Cache.Driver == "" {
		if c.Cache.URL != "" {
			c.Cache.Driver = CacheRedis
		} else {
			c.Cache.Driver = CacheSQLite
		}
	}
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(c.StorageDir, "cache.db")
	}

	if c.Source.Type == "" {
		if c.Source.SpreadsheetID != "" {
			c.Source.Type = SourceSheets
		} else {
			c.Source.Type = SourceCSV
		}
	}

	return c.Validate()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port %d", c.Web.Port)
	}
	if c.Search.PageSize < 1 {
		return fmt.Errorf("search page_size must be positive, got %d", c.Search.PageSize)
	}
	if c.Search.Threshold <= 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("search threshold must be in (0, 1], got %g", c.Search.Threshold)
	}

	switch c.Cache.Driver {
	case CacheRedis:
		if c.Cache.URL == "" {
			return fmt.Errorf("cache driver redis requires cache.url or REDIS_URL")
		}
	case CacheSQLite, CacheMemory:
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}

	switch c.Source.Type {
	case SourceSheets, SourceCSV:
	default:
		return fmt.Errorf("unknown source type %q", c.Source.Type)
	}

	if c.Source.RefreshInterval.Duration < 0 {
		return fmt.Errorf("source refresh_interval must not be negative")
	}

	if c.RateLimit.Enabled && (c.RateLimit.Requests < 1 || c.RateLimit.Window.Duration <= 0) {
		return fmt.Errorf("rate_limit needs positive requests and window")
	}
	return nil
}

// Addr returns the host:port the web server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0600)
}

// SaveTemplateConfig writes the commented sample configuration.
func SaveTemplateConfig(configPath, storageDir string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template := configTemplate
	if storageDir != "" {
		template = strings.Replace(template, "/home/user/.local/share/"+appName, storageDir, 1)
	}
	return os.WriteFile(configPath, []byte(template), 0600)
}

// GetDefaultStorageDir returns the default directory for the sqlite cache
func GetDefaultStorageDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", dir, err)
	}
	return dir, nil
}

// GetConfigDir returns the configuration directory
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
