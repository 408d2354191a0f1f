// Package library holds the in-memory catalog graph built from a music
// library export: tracks, albums, artists, and the genre registry.
// The Library owns every entity; albums and artists reference each other
// only by key, so removal is a pure key-set operation.
package library

import "github.com/avelars/melodex/internal/constants"

// Library is the passive container for the catalog graph.
type Library struct {
	Tracks  map[int]*Track
	Albums  map[AlbumKey]*Album
	Artists map[string]*Artist

	genres    []string
	genreKeys map[string]int
}

// New creates an empty library with the unknown genre pre-registered.
func New() *Library {
	return &Library{
		Tracks:    make(map[int]*Track),
		Albums:    make(map[AlbumKey]*Album),
		Artists:   make(map[string]*Artist),
		genres:    []string{constants.UnknownGenreName},
		genreKeys: map[string]int{constants.UnknownGenreName: constants.UnknownGenreKey},
	}
}

// AddTrack inserts or overwrites a track by id.
func (l *Library) AddTrack(t *Track) {
	l.Tracks[t.ID] = t
}

// AddAlbum inserts or overwrites an album by key.
func (l *Library) AddAlbum(a *Album) {
	l.Albums[a.Key()] = a
}

// Album returns the album for key, creating it when absent.
func (l *Library) Album(key AlbumKey) *Album {
	if a, ok := l.Albums[key]; ok {
		return a
	}
	a := NewAlbum(key.Name, key.Year)
	l.Albums[key] = a
	return a
}

// AddArtist inserts or overwrites an artist by name.
func (l *Library) AddArtist(ar *Artist) {
	l.Artists[ar.Name] = ar
}

// Artist returns the artist for name, creating it when absent.
func (l *Library) Artist(name string) *Artist {
	if ar, ok := l.Artists[name]; ok {
		return ar
	}
	ar := NewArtist(name)
	l.Artists[name] = ar
	return ar
}

// GenreKey interns a genre name, returning its existing key or
// appending it and returning a fresh one. Key 0 is the unknown genre.
func (l *Library) GenreKey(name string) int {
	if key, ok := l.genreKeys[name]; ok {
		return key
	}
	key := len(l.genres)
	l.genres = append(l.genres, name)
	l.genreKeys[name] = key
	return key
}

// GenreName resolves a genre key back to its name. Unknown keys resolve
// to the unknown genre.
func (l *Library) GenreName(key int) string {
	if key < 0 || key >= len(l.genres) {
		return constants.UnknownGenreName
	}
	return l.genres[key]
}

// GenreCount returns the number of registered genres, including unknown.
func (l *Library) GenreCount() int {
	return len(l.genres)
}
