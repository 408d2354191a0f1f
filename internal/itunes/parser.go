// Package itunes imports an iTunes library XML export into the catalog
// graph. Each plist track entry is a flat key-value record; entries
// missing a required field are skipped and counted, never fatal.
package itunes

import (
	"fmt"
	"os"

	"howett.net/plist"

	"github.com/avelars/melodex/internal/constants"
	"github.com/avelars/melodex/internal/library"
	"github.com/avelars/melodex/internal/logger"
)

// Stats reports how many raw records were imported and skipped.
type Stats struct {
	Parsed  int
	Skipped int
}

type libraryXML struct {
	Tracks map[string]map[string]interface{} `plist:"Tracks"`
}

// Load parses the library XML at path and builds the catalog graph.
func Load(path string, log *logger.Logger) (*library.Library, Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to read library file: %w", err)
	}
	return Parse(data, log)
}

// Parse builds the catalog graph from raw library plist data.
func Parse(data []byte, log *logger.Logger) (*library.Library, Stats, error) {
	var doc libraryXML
	if _, err := plist.Unmarshal(data, &doc); err != nil {
		return nil, Stats{}, fmt.Errorf("failed to parse library plist: %w", err)
	}

	lib := library.New()
	var stats Stats

	for _, record := range doc.Tracks {
		// Music videos, TV shows, and movies carry a video flag.
		if _, ok := record[constants.KeyHasVideo]; ok {
			stats.Skipped++
			continue
		}

		track, err := buildTrack(lib, record)
		if err != nil {
			log.Debug("Skipping record", "error", err)
			stats.Skipped++
			continue
		}

		lib.AddTrack(track)
		stats.Parsed++
	}

	log.Info("Parsed library", "tracks", stats.Parsed, "skipped", stats.Skipped,
		"albums", len(lib.Albums), "artists", len(lib.Artists), "genres", lib.GenreCount())
	return lib, stats, nil
}

// buildTrack converts one flat record into a Track and wires it into the
// album, artist, and genre registries.
func buildTrack(lib *library.Library, record map[string]interface{}) (*library.Track, error) {
	id, err := intField(record, constants.KeyTrackID)
	if err != nil {
		return nil, err
	}
	name, err := stringField(record, constants.KeyName)
	if err != nil {
		return nil, err
	}
	artist, err := stringField(record, constants.KeyArtist)
	if err != nil {
		return nil, err
	}
	albumName, err := stringField(record, constants.KeyAlbum)
	if err != nil {
		return nil, err
	}
	year, err := intField(record, constants.KeyYear)
	if err != nil {
		return nil, err
	}
	genre, err := stringField(record, constants.KeyGenre)
	if err != nil {
		return nil, err
	}

	track := library.NewTrack(id, name, artist)
	track.Year = year
	track.GenreKey = lib.GenreKey(genre)

	if rating, err := intField(record, constants.KeyRating); err == nil {
		r := float64(rating)
		track.Rating = &r
	}
	if plays, err := intField(record, constants.KeyPlayCount); err == nil {
		track.Plays = plays
	}
	if loved, ok := record[constants.KeyLoved].(bool); ok {
		track.Loved = loved
	}

	key := library.AlbumKey{Name: library.NormalizeAlbumName(albumName), Year: year}
	track.AlbumKey = key
	lib.Album(key).AddTrack(track)

	for _, artistName := range track.Artists {
		ar := lib.Artist(artistName)
		ar.AddAlbum(key)
		ar.AddGenre(track.GenreKey)
	}

	return track, nil
}

func stringField(record map[string]interface{}, key string) (string, error) {
	value, ok := record[key]
	if !ok {
		return "", fmt.Errorf("missing required field %q", key)
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("field %q is not a usable string", key)
	}
	return s, nil
}

func intField(record map[string]interface{}, key string) (int, error) {
	value, ok := record[key]
	if !ok {
		return 0, fmt.Errorf("missing required field %q", key)
	}
	switch v := value.(type) {
	case uint64:
		return int(v), nil
	case int64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("field %q is not a number", key)
	}
}
