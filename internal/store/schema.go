package store

const Schema = `
CREATE TABLE IF NOT EXISTS tracks (
	id INTEGER PRIMARY KEY,
	spotify_id TEXT NOT NULL,
	name TEXT NOT NULL,
	artists TEXT NOT NULL,
	genre TEXT,
	plays INTEGER DEFAULT 0,
	rating REAL,
	loved BOOLEAN DEFAULT 0,
	year INTEGER,
	popularity INTEGER,

	-- Audio feature schema
	acousticness REAL,
	danceability REAL,
	duration_ms INTEGER,
	energy REAL,
	instrumentalness REAL,
	key INTEGER,
	liveness REAL,
	loudness REAL,
	mode INTEGER,
	speechiness REAL,
	tempo REAL,
	time_signature INTEGER,
	valence REAL
);

CREATE INDEX IF NOT EXISTS idx_tracks_spotify_id ON tracks(spotify_id);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	parsed INTEGER DEFAULT 0,
	skipped INTEGER DEFAULT 0,
	merged INTEGER DEFAULT 0,
	matched INTEGER DEFAULT 0,
	unmatched INTEGER DEFAULT 0,
	failed INTEGER DEFAULT 0,
	enriched INTEGER DEFAULT 0
);
`
