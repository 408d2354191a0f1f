package store

import (
	"database/sql"
	"fmt"

	"github.com/avelars/melodex/internal/domain"
)

const insertTrackQuery = `
INSERT INTO tracks (
	id, spotify_id, name, artists, genre, plays, rating, loved, year, popularity,
	acousticness, danceability, duration_ms, energy, instrumentalness, key,
	liveness, loudness, mode, speechiness, tempo, time_signature, valence
) VALUES (
	:id, :spotify_id, :name, :artists, :genre, :plays, :rating, :loved, :year, :popularity,
	:acousticness, :danceability, :duration_ms, :energy, :instrumentalness, :key,
	:liveness, :loudness, :mode, :speechiness, :tempo, :time_signature, :valence
)`

// ReplaceTracks clears the tracks table and inserts the given enriched
// records. Each run produces a full replacement set.
func (db *DB) ReplaceTracks(tracks []domain.EnrichedTrack) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM tracks`); err != nil {
		return fmt.Errorf("failed to clear tracks: %w", err)
	}

	for i := range tracks {
		if _, err := tx.NamedExec(insertTrackQuery, &tracks[i]); err != nil {
			return fmt.Errorf("failed to insert track %d: %w", tracks[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// ListTracks returns stored enriched tracks ordered by popularity.
func (db *DB) ListTracks(limit int) ([]domain.EnrichedTrack, error) {
	var tracks []domain.EnrichedTrack
	err := db.Select(&tracks, `SELECT * FROM tracks ORDER BY popularity DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}

// GetTrack returns one enriched track by local id, or nil when absent.
func (db *DB) GetTrack(id int) (*domain.EnrichedTrack, error) {
	var track domain.EnrichedTrack
	err := db.Get(&track, `SELECT * FROM tracks WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return &track, nil
}
