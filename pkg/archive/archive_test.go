package archive

import (
	"errors"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{in: "pr1", want: TypePR1},
		{in: " PR2 ", want: TypePR2},
		{in: "Capstone", want: TypeCapstone},
		{in: "respro", want: TypeResPro},
		{in: "thesis", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTypeLabels(t *testing.T) {
	for _, typ := range Types {
		if typ.Label() == string(typ) {
			t.Errorf("type %q has no label", typ)
		}
	}
	if got := TypeCapstone.Label(); got != "Capstone Project (STEM)" {
		t.Errorf("unexpected capstone label %q", got)
	}
	if got := Type("other").Label(); got != "other" {
		t.Errorf("unknown types should label as themselves, got %q", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Effects of Climate on Rice Yield":        "effects-of-climate-on-rice-yield",
		"Community Perceptions of Climate Change": "community-perceptions-of-climate-change",
		"  Leading and trailing  ":                "leading-and-trailing",
		"Students' Study Habits":                  "students-study-habits",
		"Año Nuevo: Café & Niño":                  "ano-nuevo-cafe-nino",
		"COVID-19 -- Impacts (2021)":              "covid-19-impacts-2021",
		"":                                        "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	title := "Effects of Climate on Rice Yield"
	if Slugify(title) != Slugify(title) {
		t.Fatal("slug must be deterministic")
	}
}

func TestFind(t *testing.T) {
	archives := []Archive{
		{Slug: "a", Title: "First"},
		{Slug: "b", Title: "Second"},
		{Slug: "b", Title: "Second duplicate"},
	}

	got, err := Find(archives, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Second" {
		t.Errorf("duplicate slugs should resolve to the first record, got %q", got.Title)
	}

	_, err = Find(archives, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestKeywordsAndDuplicates(t *testing.T) {
	archives := []Archive{
		{Slug: "a", Keywords: []string{"climate", "rice"}},
		{Slug: "b", Keywords: []string{"climate"}},
		{Slug: "a"},
	}

	kw := Keywords(archives)
	want := []string{"climate", "rice", "climate"}
	if len(kw) != len(want) {
		t.Fatalf("Keywords() = %v, want %v", kw, want)
	}
	for i := range want {
		if kw[i] != want[i] {
			t.Errorf("Keywords()[%d] = %q, want %q", i, kw[i], want[i])
		}
	}

	if got := Keywords(nil); got == nil || len(got) != 0 {
		t.Errorf("Keywords(nil) should be an empty, non-nil slice, got %#v", got)
	}

	dups := DuplicateSlugs(archives)
	if len(dups) != 1 || dups[0] != "a" {
		t.Errorf("DuplicateSlugs() = %v, want [a]", dups)
	}
}
