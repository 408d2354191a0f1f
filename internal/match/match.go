// Package match decides whether an external search result denotes the
// same song as a locally-known track.
//
// Exact string equality is too brittle (diacritics, punctuation, remix
// tags) while fully relaxed matching over-merges distinct songs, so the
// comparison runs in two phases and only re-tests the dimensions that
// failed exactly.
package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/avelars/melodex/internal/library"
)

// Candidate is one external search result considered for identity.
type Candidate struct {
	ID         string
	Name       string
	Artists    []string
	Popularity int
}

// Query builds the free-text search query for a track: display name
// followed by the main artist.
func Query(t *library.Track) string {
	return t.Name + " " + t.MainArtist()
}

// IsMatch reports whether the candidate denotes the same song as the
// track. Phase 1 compares case-normalized name equality and artist-set
// intersection; phase 2 strips non-alphanumeric characters and re-tests
// only the dimensions that failed.
func IsMatch(t *library.Track, c Candidate) bool {
	localName := strings.ToLower(t.Name)
	localArtists := lowerSet(t.Artists)

	candName := strings.ToLower(fold(library.StripFeaturedArtists(c.Name)))
	candArtists := make(map[string]struct{})
	for _, field := range c.Artists {
		for _, name := range library.SplitArtists(fold(field)) {
			candArtists[strings.ToLower(name)] = struct{}{}
		}
	}

	nameOK := localName == candName
	artistOK := intersects(localArtists, candArtists)
	if nameOK && artistOK {
		return true
	}

	if !nameOK {
		nameOK = relax(localName) == relax(candName)
	}
	if !artistOK {
		artistOK = intersects(relaxSet(localArtists), relaxSet(candArtists))
	}
	return nameOK && artistOK
}

// intersects reports whether at least one local artist appears in the
// candidate set.
func intersects(local, candidate map[string]struct{}) bool {
	missing := 0
	for name := range local {
		if _, ok := candidate[name]; !ok {
			missing++
		}
	}
	return missing < len(local)
}

var specialChars = regexp.MustCompile(`[^\s\w]+`)

// relax strips characters that are neither alphanumeric nor whitespace
// and collapses repeated whitespace.
func relax(s string) string {
	return strings.Join(strings.Fields(specialChars.ReplaceAllString(s, "")), " ")
}

func relaxSet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for s := range set {
		out[relax(s)] = struct{}{}
	}
	return out
}

func lowerSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[strings.ToLower(n)] = struct{}{}
	}
	return out
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold removes diacritic marks so accented external names compare equal
// to their plain local spellings.
func fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}
