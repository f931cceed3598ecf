package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/config"
	"github.com/msugsc-shs/research-archive/pkg/search"
	"github.com/msugsc-shs/research-archive/pkg/source"
)

var cliArchive = archive.Archive{
	Slug:     "climate-change-and-rice-yield",
	Title:    "Climate Change and Rice Yield",
	Year:     "2023",
	Abstract: "Rainfall variability and harvests in Lanao.",
	Authors:  []string{"Maria Santos"},
	Keywords: []string{"climate", "agriculture"},
	Type:     archive.TypePR2,
}

func TestParseTypes(t *testing.T) {
	types, err := parseTypes([]string{"PR1", " capstone "})
	if err != nil {
		t.Fatalf("parseTypes: %v", err)
	}
	if len(types) != 2 || types[0] != archive.TypePR1 || types[1] != archive.TypeCapstone {
		t.Errorf("Unexpected types %v", types)
	}

	if _, err := parseTypes([]string{"thesis"}); err == nil {
		t.Errorf("Expected an error for an unknown type")
	}
}

func TestFormatSearchOutput(t *testing.T) {
	others := archive.Archive{Slug: "tourism-in-lanao", Title: "Tourism in Lanao", Year: "2021", Type: archive.TypeResPro}
	results := search.Search([]archive.Archive{cliArchive, others}, "climate", search.AllFilters(), search.Options{IncludeAll: true})

	out := formatSearchOutput("climate", results, results, 1, 1)
	for _, want := range []string{
		"Search: climate",
		"1 of 2 results matched",
		"Climate",
		"Change and Rice Yield",
		"Maria Santos",
		"Practical Research 2 (Quantitative)",
		"slug: climate-change-and-rice-yield",
		"slug: tourism-in-lanao",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Page 1 of 1") {
		t.Errorf("A single page should not show page numbers")
	}
}

func TestFormatSearchOutputEmpty(t *testing.T) {
	out := formatSearchOutput("", nil, nil, 1, 0)
	if !strings.Contains(out, "SHS Research Archive") || !strings.Contains(out, "No results") {
		t.Errorf("Unexpected empty output:\n%s", out)
	}
}

func TestFormatArchive(t *testing.T) {
	out := formatArchive(cliArchive, "https://archive.example.org/archive/climate-change-and-rice-yield")

	for _, want := range []string{
		"Climate Change and Rice Yield",
		"Maria Santos",
		"Abstract",
		"Rainfall variability",
		"Santos, M. (2023). Climate Change and Rice Yield.",
		"@misc{climate-change-and-rice-yield,",
		"url = {https://archive.example.org/archive/climate-change-and-rice-yield}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}

	noAbstract := cliArchive
	noAbstract.Abstract = ""
	if !strings.Contains(formatArchive(noAbstract, ""), "No abstract available.") {
		t.Errorf("Expected a placeholder for a missing abstract")
	}
}

func TestArchiveURL(t *testing.T) {
	if got := archiveURL("", "x"); got != "" {
		t.Errorf("Expected no URL without a base, got %q", got)
	}
	if got := archiveURL("https://archive.example.org/", "x"); got != "https://archive.example.org/archive/x" {
		t.Errorf("Unexpected URL %q", got)
	}
}

func TestFormatKeywords(t *testing.T) {
	out := formatKeywords([]string{"agriculture", "climate"})
	if !strings.Contains(out, "2 keywords") || !strings.Contains(out, "• climate") {
		t.Errorf("Unexpected keywords output:\n%s", out)
	}
	if !strings.Contains(formatKeywords(nil), "No keywords") {
		t.Errorf("Expected a message for no keywords")
	}
}

func TestInitConfig(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "shs-archive", "config.toml")

	if err := initConfig(path, false); err != nil {
		t.Fatalf("initConfig: %v", err)
	}
	cfg, err := config.Load(path, func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	if cfg.Web.Port != 3000 {
		t.Errorf("Expected default port 3000, got %d", cfg.Web.Port)
	}
	if !strings.HasPrefix(cfg.StorageDir, os.Getenv("XDG_DATA_HOME")) {
		t.Errorf("Expected storage dir under XDG_DATA_HOME, got %s", cfg.StorageDir)
	}

	if err := initConfig(path, false); err == nil {
		t.Errorf("Expected an error when the file exists")
	}
	if err := initConfig(path, true); err != nil {
		t.Errorf("Expected --force to overwrite: %v", err)
	}
}

func TestCreateSourceFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Source.Type = config.SourceCSV
	if _, err := createSourceFromConfig(cfg); err == nil {
		t.Errorf("Expected an error for csv without a path")
	}

	cfg.Source.Type = config.SourceSheets
	cfg.Source.SpreadsheetID = "sheet"
	if _, err := createSourceFromConfig(cfg); err == nil {
		t.Errorf("Expected an error for sheets without credentials")
	}
}

func TestWatchSourceRefreshesCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0644); err != nil {
		t.Fatalf("writing csv: %v", err)
	}
	cfg := testConfig(t, path)
	cfg.Source.Watch = true
	defer func(d time.Duration) { source.WatchDelay = d }(source.WatchDelay)
	source.WatchDelay = 10 * time.Millisecond

	cat, c, err := openCatalog(cfg)
	if err != nil {
		t.Fatalf("opening catalog: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watchSource(ctx, cfg, cat)
		close(done)
	}()

	archives, err := cat.Archives(ctx)
	if err != nil || len(archives) != 7 {
		t.Fatalf("Expected 7 archives, got %d (%v)", len(archives), err)
	}

	// Rewrite until the watcher is running and picks up the change.
	updated := testCSV + "Fish Kills in Lake Lanao,2024,,Ana Cruz,environment,pr2\n"
	for i := 0; i < 50 && len(archives) != 8; i++ {
		if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
			t.Fatalf("writing csv: %v", err)
		}
		time.Sleep(100 * time.Millisecond)
		archives, _ = cat.Archives(ctx)
	}
	cancel()
	<-done

	if len(archives) != 8 {
		t.Fatalf("Expected the watcher to reload 8 archives, got %d", len(archives))
	}
}
