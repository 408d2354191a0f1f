package library

import (
	"regexp"
	"strings"
)

var (
	featInNamePattern = regexp.MustCompile(`\(feat\.(.*)\)`)
	stripFeatPattern  = regexp.MustCompile(`\s*\(feat\..*\)\s*`)
	multiArtistSplit  = regexp.MustCompile(`\s*[,&]\s*`)
)

// Track is a single music track owned by a Library. Albums and artists
// are referenced by key, never by pointer.
type Track struct {
	ID        int
	SpotifyID string
	Name      string
	// Artists is ordered: the first entry is the main artist used for
	// album/artist association, the rest are co- or featured artists.
	Artists  []string
	GenreKey int
	Rating   *float64
	Plays    int
	Loved    bool
	Year     int
	AlbumKey AlbumKey
}

// NewTrack builds a track from the raw name and delimited artist field.
// Featured artists are parsed out of a "(feat. ...)" name suffix and the
// suffix is removed from the display name.
func NewTrack(id int, name, artistField string) *Track {
	var featured []string
	if m := featInNamePattern.FindStringSubmatch(name); m != nil {
		featured = multiArtistSplit.Split(strings.TrimSpace(m[1]), -1)
	}
	name = strings.TrimSpace(stripFeatPattern.ReplaceAllString(name, " "))

	artists := multiArtistSplit.Split(strings.TrimSpace(artistField), -1)
	seen := make(map[string]struct{}, len(artists)+len(featured))
	ordered := make([]string, 0, len(artists)+len(featured))
	for _, a := range append(artists, featured...) {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		ordered = append(ordered, a)
	}

	return &Track{
		ID:      id,
		Name:    name,
		Artists: ordered,
	}
}

// MainArtist returns the artist used to key album and artist association.
func (t *Track) MainArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// Identifier is the duplicate key: two tracks with equal identifiers
// represent the same song regardless of album or id.
func (t *Track) Identifier() string {
	return t.Name + "|" + strings.Join(t.Artists, ",")
}

// AlbumKey is the composite album identity of normalized name and year.
type AlbumKey struct {
	Name string
	Year int
}

// Album is a collection of track ids sharing one release.
type Album struct {
	Name    string
	Year    int
	Tracks  map[int]struct{}
	Artists map[string]struct{}
}

// NewAlbum creates an empty album for the given normalized name and year.
func NewAlbum(name string, year int) *Album {
	return &Album{
		Name:    name,
		Year:    year,
		Tracks:  make(map[int]struct{}),
		Artists: make(map[string]struct{}),
	}
}

// Key returns the album's identity in the library.
func (a *Album) Key() AlbumKey {
	return AlbumKey{Name: a.Name, Year: a.Year}
}

// AddTrack adds a track to the album, unioning its artists in.
func (a *Album) AddTrack(t *Track) {
	a.Tracks[t.ID] = struct{}{}
	for _, artist := range t.Artists {
		a.Artists[artist] = struct{}{}
	}
}

// Artist associates albums and genres with one display name.
type Artist struct {
	Name   string
	Albums map[AlbumKey]struct{}
	Genres map[int]struct{}
}

// NewArtist creates an artist with no albums.
func NewArtist(name string) *Artist {
	return &Artist{
		Name:   name,
		Albums: make(map[AlbumKey]struct{}),
		Genres: make(map[int]struct{}),
	}
}

// AddAlbum associates an album key with this artist.
func (ar *Artist) AddAlbum(key AlbumKey) {
	ar.Albums[key] = struct{}{}
}

// AddGenre associates a genre key with this artist.
func (ar *Artist) AddGenre(genreKey int) {
	ar.Genres[genreKey] = struct{}{}
}
