package domain

import "time"

// AudioFeatures is the fixed acoustic attribute schema attached to a
// matched track. Values are copied verbatim from the feature service.
type AudioFeatures struct {
	Acousticness     float64 `json:"acousticness" db:"acousticness"`
	Danceability     float64 `json:"danceability" db:"danceability"`
	DurationMS       int     `json:"duration_ms" db:"duration_ms"`
	Energy           float64 `json:"energy" db:"energy"`
	Instrumentalness float64 `json:"instrumentalness" db:"instrumentalness"`
	Key              int     `json:"key" db:"key"`
	Liveness         float64 `json:"liveness" db:"liveness"`
	Loudness         float64 `json:"loudness" db:"loudness"`
	Mode             int     `json:"mode" db:"mode"`
	Speechiness      float64 `json:"speechiness" db:"speechiness"`
	Tempo            float64 `json:"tempo" db:"tempo"`
	TimeSignature    int     `json:"time_signature" db:"time_signature"`
	Valence          float64 `json:"valence" db:"valence"`
}

// EnrichedTrack is the final record produced for one physical song,
// carrying both locally-sourced and Spotify-sourced attributes.
type EnrichedTrack struct {
	ID         int      `json:"id" db:"id"`
	SpotifyID  string   `json:"spotify_id" db:"spotify_id"`
	Name       string   `json:"name" db:"name"`
	Artists    string   `json:"artists" db:"artists"`
	Genre      string   `json:"genre" db:"genre"`
	Plays      int      `json:"plays" db:"plays"`
	Rating     *float64 `json:"rating,omitempty" db:"rating"`
	Loved      bool     `json:"loved" db:"loved"`
	Year       int      `json:"year" db:"year"`
	Popularity int      `json:"popularity" db:"popularity"`

	AudioFeatures
}

// Run summarizes one pipeline execution.
type Run struct {
	ID         string    `json:"id" db:"id"`
	StartedAt  time.Time `json:"started_at" db:"started_at"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
	Parsed     int       `json:"parsed" db:"parsed"`
	Skipped    int       `json:"skipped" db:"skipped"`
	Merged     int       `json:"merged" db:"merged"`
	Matched    int       `json:"matched" db:"matched"`
	Unmatched  int       `json:"unmatched" db:"unmatched"`
	Failed     int       `json:"failed" db:"failed"`
	Enriched   int       `json:"enriched" db:"enriched"`
}
