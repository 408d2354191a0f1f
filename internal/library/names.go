package library

import (
	"regexp"
	"strings"
)

// Editions of the same release ("Deluxe", "Original Broadway Cast
// Recording", "- Single") must collapse to one album key.
var albumQualifierPattern = regexp.MustCompile(`\s*(-\s*(Single|EP)\s*$|\([^)]*\)|\[[^\]]*\])\s*`)

// NormalizeAlbumName strips single/EP suffixes and any parenthetical or
// bracketed qualifier from an album name. Runs to a fixed point so a
// suffix exposed by an earlier strip is removed too. Idempotent.
func NormalizeAlbumName(name string) string {
	name = strings.TrimSpace(name)
	for {
		stripped := strings.TrimSpace(albumQualifierPattern.ReplaceAllString(name, " "))
		if stripped == name {
			return name
		}
		name = stripped
	}
}

// StripFeaturedArtists removes "(feat. ...)" or "- feat. ..." suffixes
// from a song title.
func StripFeaturedArtists(name string) string {
	return strings.TrimSpace(featSuffixPattern.ReplaceAllString(name, " "))
}

var featSuffixPattern = regexp.MustCompile(`\s*(\(feat\..*\)|-\s*feat\..*)\s*`)

// SplitArtists splits a delimited multi-artist string on "," and "&".
func SplitArtists(field string) []string {
	parts := multiArtistSplit.Split(strings.TrimSpace(field), -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
