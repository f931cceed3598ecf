package archive

import "testing"

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"Cruz, Juan":        "Juan Cruz",
		"Santos, Maria B.":  "Maria B. Santos",
		"  Reyes , Ana  ":   "Ana Reyes",
		"Juan Cruz":         "Juan Cruz",
		"Cruz,":             "Cruz",
		"Madonna":           "Madonna",
		"Dela Cruz, Juan P": "Juan P Dela Cruz",
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCitationName(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "Juan Cruz", want: "Cruz, Juan", wantOK: true},
		{in: "Maria B. Santos", want: "Santos, Maria B.", wantOK: true},
		{in: "Madonna", wantOK: false},
		{in: "", wantOK: false},
		{in: "Jose Rizal Jr.", wantOK: false},
		{in: "Henry Ford III", wantOK: false},
		{in: "Juan Dela Cruz", want: "Cruz, Juan Dela", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CitationName(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("CitationName(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("CitationName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAuthorRoundTrip(t *testing.T) {
	names := []string{
		"Cruz, Juan",
		"Santos, Maria",
		"Reyes, Ana B.",
		"Lim, Jose Miguel",
	}
	for _, name := range names {
		got, ok := CitationName(DisplayName(name))
		if !ok {
			t.Fatalf("round trip dropped %q", name)
		}
		if got != name {
			t.Errorf("round trip of %q gave %q", name, got)
		}
	}
}

// Multi-word family names do not survive the round trip: the last token is
// always taken as the family name.
func TestAuthorRoundTripLossyFamilyName(t *testing.T) {
	got, ok := CitationName(DisplayName("Dela Cruz, Juan"))
	if !ok {
		t.Fatal("expected the name to parse")
	}
	if got == "Dela Cruz, Juan" {
		t.Fatal("expected the known lossy split for multi-word family names")
	}
	if got != "Cruz, Juan Dela" {
		t.Errorf("unexpected split %q", got)
	}
}

func TestSplitCitationName(t *testing.T) {
	family, given, ok := SplitCitationName("Maria B. Santos")
	if !ok || family != "Santos" || given != "Maria B." {
		t.Errorf("SplitCitationName = (%q, %q, %v)", family, given, ok)
	}
	if _, _, ok := SplitCitationName("Cher"); ok {
		t.Error("single token names should not split")
	}
}
