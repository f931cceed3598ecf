package search

import (
	"fmt"
	"testing"

	"github.com/msugsc-shs/research-archive/pkg/archive"
)

func fixtures() []archive.Archive {
	return []archive.Archive{
		{
			Slug:     "effects-of-climate-on-rice-yield",
			Title:    "Effects of Climate on Rice Yield",
			Year:     "2023",
			Abstract: "We measured rice harvests across five seasons.",
			Authors:  []string{"Cruz, Juan"},
			Keywords: []string{"agriculture", "rice"},
			Type:     archive.TypePR2,
		},
		{
			Slug:     "community-perceptions-of-climate-change",
			Title:    "Community Perceptions of Climate Change",
			Year:     "2024",
			Abstract: "Interviews with coastal residents.",
			Authors:  []string{"Santos, Maria"},
			Keywords: []string{"survey", "environment"},
			Type:     archive.TypeCapstone,
		},
		{
			Slug:     "mathematics-anxiety-among-senior-high-students",
			Title:    "Mathematics Anxiety Among Senior High Students",
			Year:     "2022",
			Abstract: "A qualitative study of test anxiety.",
			Authors:  []string{"Reyes, Ana"},
			Keywords: []string{"education", "anxiety"},
			Type:     archive.TypePR1,
		},
	}
}

func slugs(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Archive.Slug
	}
	return out
}

func TestSearchAllFiltersOff(t *testing.T) {
	for _, q := range []string{"", "*", "climate", "zzz", "   "} {
		for _, includeAll := range []bool{false, true} {
			got := Search(fixtures(), q, NoFilters(), Options{IncludeAll: includeAll})
			if len(got) != 0 {
				t.Errorf("query %q includeAll=%v: expected no results, got %v", q, includeAll, slugs(got))
			}
		}
	}
}

func TestSearchWildcardReturnsEveryRecordOnce(t *testing.T) {
	records := fixtures()
	got := Search(records, " * ", AllFilters(), Options{})
	if len(got) != len(records) {
		t.Fatalf("expected %d results, got %d", len(records), len(got))
	}

	seen := map[string]int{}
	for i, r := range got {
		seen[r.Archive.Slug]++
		if !r.Matched {
			t.Errorf("wildcard result %d should be marked as matched", i)
		}
		if r.Score != got[0].Score {
			t.Errorf("wildcard results should share one score, got %v and %v", r.Score, got[0].Score)
		}
		if r.Archive.Slug != records[i].Slug {
			t.Errorf("wildcard results should keep input order, position %d is %s", i, r.Archive.Slug)
		}
	}
	for _, a := range records {
		if seen[a.Slug] != 1 {
			t.Errorf("record %s appeared %d times", a.Slug, seen[a.Slug])
		}
	}
}

func TestSearchEmptyQueryMatchesWildcard(t *testing.T) {
	records := fixtures()
	wild := Search(records, "*", AllFilters(), Options{})
	for _, q := range []string{"", "   ", "\t\n"} {
		got := Search(records, q, AllFilters(), Options{})
		if fmt.Sprint(slugs(got)) != fmt.Sprint(slugs(wild)) {
			t.Errorf("query %q: got %v, want %v", q, slugs(got), slugs(wild))
		}
	}
}

func TestSearchClimateScenario(t *testing.T) {
	got := Search(fixtures(), "climate", AllFilters(), Options{})
	want := []string{"effects-of-climate-on-rice-yield", "community-perceptions-of-climate-change"}
	if fmt.Sprint(slugs(got)) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", slugs(got), want)
	}
	for _, r := range got {
		if r.Field != FieldTitle {
			t.Errorf("%s: expected the title to be the best field, got %q", r.Archive.Slug, r.Field)
		}
		if r.Score < DefaultThreshold {
			t.Errorf("%s: score %v below threshold", r.Archive.Slug, r.Score)
		}
	}

	spans := got[0].Highlights[FieldTitle]
	if len(spans) != 1 || spans[0] != (Span{Start: 11, End: 18}) {
		t.Errorf("unexpected title highlight %v", spans)
	}
}

func TestSearchWildcardWithFilter(t *testing.T) {
	records := fixtures()[:2]
	filters := AllFilters()
	filters[archive.TypePR2] = false

	got := Search(records, "*", filters, Options{})
	if len(got) != 1 || got[0].Archive.Type != archive.TypeCapstone {
		t.Fatalf("expected only the capstone record, got %v", slugs(got))
	}
}

func TestSearchEmptyRecords(t *testing.T) {
	for _, q := range []string{"", "*", "climate"} {
		got := Search(nil, q, AllFilters(), Options{IncludeAll: true})
		if len(got) != 0 {
			t.Errorf("query %q: expected no results, got %d", q, len(got))
		}
		page, pageCount := Paginate(got, DefaultPageSize, 1)
		if len(page) != 0 || pageCount != 0 {
			t.Errorf("query %q: expected empty page and 0 pages, got %d items, %d pages", q, len(page), pageCount)
		}
	}
}

func TestSearchIncludeAll(t *testing.T) {
	got := Search(fixtures(), "climate", AllFilters(), Options{IncludeAll: true})
	if len(got) != 3 {
		t.Fatalf("expected every filtered record, got %v", slugs(got))
	}
	if !got[0].Matched || !got[1].Matched {
		t.Error("matches should come first")
	}
	last := got[2]
	if last.Matched {
		t.Errorf("%s should not be marked as matched (score %v)", last.Archive.Slug, last.Score)
	}
	if last.Archive.Slug != "mathematics-anxiety-among-senior-high-students" {
		t.Errorf("unexpected unmatched record %s", last.Archive.Slug)
	}
	if MatchedCount(got) != 2 {
		t.Errorf("MatchedCount = %d, want 2", MatchedCount(got))
	}
}

func TestSearchToleratesTypos(t *testing.T) {
	got := Search(fixtures(), "climte", AllFilters(), Options{})
	if len(got) != 2 {
		t.Fatalf("expected both climate records, got %v", slugs(got))
	}
}

func TestSearchEveryTermMustMatch(t *testing.T) {
	got := Search(fixtures(), "climate banana", AllFilters(), Options{})
	if len(got) != 0 {
		t.Fatalf("an unmatched word should reject every record, got %v", slugs(got))
	}

	all := Search(fixtures(), "climate banana", AllFilters(), Options{IncludeAll: true})
	if len(all) != 3 || MatchedCount(all) != 0 {
		t.Fatalf("expected 3 unmatched records, got %d with %d matched", len(all), MatchedCount(all))
	}
	for _, r := range all {
		if r.Score >= DefaultThreshold {
			t.Errorf("%s: score %v should stay below the threshold", r.Archive.Slug, r.Score)
		}
	}
}

func TestSearchTermsAcrossFields(t *testing.T) {
	got := Search(fixtures(), "climate juan", AllFilters(), Options{})
	if fmt.Sprint(slugs(got)) != "[effects-of-climate-on-rice-yield]" {
		t.Fatalf("expected the record matching both words, got %v", slugs(got))
	}
	if got[0].Score < DefaultThreshold {
		t.Errorf("score %v below threshold", got[0].Score)
	}
	if len(got[0].Highlights[FieldTitle]) == 0 || len(got[0].Highlights[FieldAuthors]) == 0 {
		t.Errorf("expected title and author highlights, got %v", got[0].Highlights)
	}
}

func TestSearchOtherFields(t *testing.T) {
	tests := []struct {
		query string
		slug  string
		field string
	}{
		{query: "coastal residents", slug: "community-perceptions-of-climate-change", field: FieldAbstract},
		{query: "Juan Cruz", slug: "effects-of-climate-on-rice-yield", field: FieldAuthors},
		{query: "agriculture", slug: "effects-of-climate-on-rice-yield", field: FieldKeywords},
		{query: "MATHEMATICS", slug: "mathematics-anxiety-among-senior-high-students", field: FieldTitle},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Search(fixtures(), tt.query, AllFilters(), Options{})
			if len(got) == 0 {
				t.Fatal("expected at least one result")
			}
			if got[0].Archive.Slug != tt.slug {
				t.Errorf("top result %s, want %s", got[0].Archive.Slug, tt.slug)
			}
			if got[0].Field != tt.field {
				t.Errorf("best field %q, want %q", got[0].Field, tt.field)
			}
		})
	}
}

func TestSearchRanksBetterMatchesFirst(t *testing.T) {
	records := []archive.Archive{
		{Slug: "inside", Title: "Microclimates of urban parks", Type: archive.TypePR1},
		{Slug: "start", Title: "Climate adaptation plans", Type: archive.TypePR1},
	}
	got := Search(records, "climate", AllFilters(), Options{})
	if fmt.Sprint(slugs(got)) != "[start inside]" {
		t.Errorf("word start matches should outrank inner matches, got %v", slugs(got))
	}
}

func TestSearchDoesNotMutateInput(t *testing.T) {
	records := fixtures()
	before := fmt.Sprint(records)
	Search(records, "climate", AllFilters(), Options{IncludeAll: true})
	if fmt.Sprint(records) != before {
		t.Error("Search modified its input")
	}
}

func TestFilterSet(t *testing.T) {
	all := AllFilters()
	if !all.All() || all.None() {
		t.Fatal("AllFilters should include every category")
	}
	none := NoFilters()
	if none.All() || !none.None() {
		t.Fatal("NoFilters should exclude every category")
	}

	toggled := all.Toggle(archive.TypeResPro)
	if toggled.Includes(archive.TypeResPro) {
		t.Error("toggle should turn respro off")
	}
	if !all.Includes(archive.TypeResPro) {
		t.Error("toggle must not modify the receiver")
	}
	if got := toggled.Enabled(); len(got) != 3 {
		t.Errorf("expected 3 enabled categories, got %v", got)
	}
}
