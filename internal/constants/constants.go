// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort        = "8080"
	DefaultDBPath      = "melodex.db"
	DefaultSpotifyAPI  = "https://api.spotify.com/v1"
	DefaultSpotifyAuth = "https://accounts.spotify.com/api/token"
	DefaultHTTPTimeout = 30 * time.Second
)

// Spotify request limits
const (
	MaxFeatureBatchSize = 100
	DefaultRetryCount   = 3
	RateLimitCooldown   = 5 * time.Second
	MaxRateLimitWaits   = 10
)

// Search result types
const (
	SearchTypeTrack = "track"
)

// Database
const (
	TracksTable = "tracks"
	RunsTable   = "runs"
)

// Genre registry
const (
	UnknownGenreKey  = 0
	UnknownGenreName = "unknown"
)

// iTunes plist keys
const (
	KeyTrackID     = "Track ID"
	KeyName        = "Name"
	KeyArtist      = "Artist"
	KeyAlbumArtist = "Album Artist"
	KeyAlbum       = "Album"
	KeyYear        = "Year"
	KeyGenre       = "Genre"
	KeyRating      = "Rating"
	KeyPlayCount   = "Play Count"
	KeyLoved       = "Loved"
	KeyHasVideo    = "Has Video"
)

// UI/UX
const (
	MaxListTracks = 500
	MaxListRuns   = 20
)
