package search

import (
	"math/rand/v2"
	"net/url"
	"testing"

	"github.com/msugsc-shs/research-archive/pkg/archive"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		q       string
		page    int
		enabled []archive.Type
	}{
		{
			name:    "defaults when no params",
			query:   "",
			page:    1,
			enabled: archive.Types,
		},
		{
			name:    "basic query",
			query:   "q=climate&page=2",
			q:       "climate",
			page:    2,
			enabled: archive.Types,
		},
		{
			name:    "type filters",
			query:   "q=rice&type=pr2&type=capstone",
			q:       "rice",
			page:    1,
			enabled: []archive.Type{archive.TypePR2, archive.TypeCapstone},
		},
		{
			name:    "explicit empty filter set",
			query:   "f=1",
			page:    1,
			enabled: nil,
		},
		{
			name:    "unknown types are ignored",
			query:   "type=thesis&type=PR1",
			page:    1,
			enabled: []archive.Type{archive.TypePR1},
		},
		{
			name:    "invalid page defaults to 1",
			query:   "q=x&page=invalid",
			q:       "x",
			page:    1,
			enabled: archive.Types,
		},
		{
			name:    "negative page defaults to 1",
			query:   "page=-3",
			page:    1,
			enabled: archive.Types,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("Failed to parse query string: %v", err)
			}

			s := ParseState(values)
			if s.Query != tt.q {
				t.Errorf("Query: expected %q, got %q", tt.q, s.Query)
			}
			if s.Page != tt.page {
				t.Errorf("Page: expected %d, got %d", tt.page, s.Page)
			}
			enabled := s.Filters.Enabled()
			if len(enabled) != len(tt.enabled) {
				t.Fatalf("Filters: expected %v, got %v", tt.enabled, enabled)
			}
			for i := range enabled {
				if enabled[i] != tt.enabled[i] {
					t.Errorf("Filters[%d]: expected %q, got %q", i, tt.enabled[i], enabled[i])
				}
			}
		})
	}
}

func TestStateValuesRoundTrip(t *testing.T) {
	states := []State{
		NewState(),
		NewState().SetQuery("climate change").SetPage(3),
		NewState().ToggleFilter(archive.TypePR2),
		NewState().ToggleFilter(archive.TypePR1).ToggleFilter(archive.TypePR2).
			ToggleFilter(archive.TypeCapstone).ToggleFilter(archive.TypeResPro),
	}

	for _, s := range states {
		got := ParseState(s.Values())
		if got.Query != s.Query || got.Page != s.Page {
			t.Errorf("round trip of %+v gave %+v", s, got)
		}
		for _, typ := range archive.Types {
			if got.Filters.Includes(typ) != s.Filters.Includes(typ) {
				t.Errorf("round trip of %+v changed filter %s", s, typ)
			}
		}
	}

	if enc := NewState().Encode(); enc != "" {
		t.Errorf("initial state should encode to an empty string, got %q", enc)
	}
}

func TestStateTransitions(t *testing.T) {
	s := NewState().SetQuery("rice").SetPage(4)
	if s.Page != 4 {
		t.Fatalf("SetPage: got %d", s.Page)
	}

	if got := s.SetQuery("climate"); got.Page != 1 || got.Query != "climate" {
		t.Errorf("SetQuery should reset the page, got %+v", got)
	}
	if got := s.ToggleFilter(archive.TypeCapstone); got.Page != 1 || got.Filters.Includes(archive.TypeCapstone) {
		t.Errorf("ToggleFilter should flip the flag and reset the page, got %+v", got)
	}
	if !s.Filters.Includes(archive.TypeCapstone) {
		t.Error("transitions must not modify the receiver")
	}

	if got := NewState().Prev(); got.Page != 1 {
		t.Errorf("Prev on page 1 should stay on 1, got %d", got.Page)
	}
	if got := s.Prev(); got.Page != 3 {
		t.Errorf("Prev from 4 should give 3, got %d", got.Page)
	}
	if got := s.Next(4); got.Page != 4 {
		t.Errorf("Next on the last page should stay, got %d", got.Page)
	}
	if got := s.Next(6); got.Page != 5 {
		t.Errorf("Next from 4 of 6 should give 5, got %d", got.Page)
	}
	if got := NewState().Next(0); got.Page != 1 {
		t.Errorf("Next with no pages should be a no-op, got %d", got.Page)
	}
	if got := s.SetPage(-2); got.Page != 1 {
		t.Errorf("SetPage should clamp to 1, got %d", got.Page)
	}
}

func TestSampleKeywords(t *testing.T) {
	keywords := []string{"Climate", "rice", "climate", " ", "survey", "rice"}

	got := SampleKeywords(keywords, 10, nil)
	want := []string{"Climate", "rice", "survey"}
	if len(got) != len(want) {
		t.Fatalf("SampleKeywords() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SampleKeywords()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	rnd := rand.New(rand.NewPCG(1, 2))
	if got := SampleKeywords(keywords, 2, rnd); len(got) != 2 {
		t.Errorf("expected 2 samples, got %v", got)
	}

	if got := Placeholder(nil); got != "Enter your search query" {
		t.Errorf("unexpected empty placeholder %q", got)
	}
	if got := Placeholder([]string{"rice", "climate"}); got != "Try: rice, climate" {
		t.Errorf("unexpected placeholder %q", got)
	}
}

func TestSegments(t *testing.T) {
	segs := Segments("Effects of Climate", []Span{{Start: 11, End: 18}})
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %+v", segs)
	}
	if segs[0].Text != "Effects of " || segs[0].Match {
		t.Errorf("unexpected first segment %+v", segs[0])
	}
	if segs[1].Text != "Climate" || !segs[1].Match {
		t.Errorf("unexpected second segment %+v", segs[1])
	}

	if segs := Segments("plain", nil); len(segs) != 1 || segs[0].Text != "plain" {
		t.Errorf("no spans should give the whole text, got %+v", segs)
	}
	if segs := Segments("Café au lait", []Span{{Start: 0, End: 4}}); segs[0].Text != "Café" {
		t.Errorf("spans are rune offsets, got %+v", segs)
	}
}
