package library

import "testing"

func TestNormalizeAlbumName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single_suffix", "Wild Card - Single", "Wild Card"},
		{"ep_suffix", "Snow Day - EP", "Snow Day"},
		{"parenthetical", "Hamilton (Original Broadway Cast Recording)", "Hamilton"},
		{"deluxe_parens", "1989 (Deluxe)", "1989"},
		{"deluxe_brackets", "1989 [Deluxe Edition]", "1989"},
		{"stacked_qualifiers", "Good Times - EP (Deluxe)", "Good Times"},
		{"plain", "Meat and Candy", "Meat and Candy"},
		{"surrounding_space", "  Hamilton  ", "Hamilton"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAlbumName(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeAlbumName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeAlbumNameIdempotent(t *testing.T) {
	inputs := []string{
		"Hamilton (Original Broadway Cast Recording)",
		"Wild Card - Single",
		"1989 [Deluxe Edition]",
		"Meat and Candy",
	}

	for _, input := range inputs {
		once := NormalizeAlbumName(input)
		twice := NormalizeAlbumName(once)
		if once != twice {
			t.Errorf("NormalizeAlbumName not idempotent on %q: %q != %q", input, once, twice)
		}
	}
}

func TestStripFeaturedArtists(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Satisfied (feat. Miguel & Queen Latifah)", "Satisfied"},
		{"Pop 101 (feat. Anami Vice)", "Pop 101"},
		{"Home - feat. Johnny Stimson", "Home"},
		{"No Features Here", "No Features Here"},
	}

	for _, tt := range tests {
		got := StripFeaturedArtists(tt.input)
		if got != tt.expected {
			t.Errorf("StripFeaturedArtists(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSplitArtists(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Sia", []string{"Sia"}},
		{"Madilyn Bailey & MAX", []string{"Madilyn Bailey", "MAX"}},
		{"Miguel, Queen Latifah", []string{"Miguel", "Queen Latifah"}},
		{"A , B & C", []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		got := SplitArtists(tt.input)
		if len(got) != len(tt.expected) {
			t.Fatalf("SplitArtists(%q) = %v, want %v", tt.input, got, tt.expected)
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("SplitArtists(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}
