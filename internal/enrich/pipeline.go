// Package enrich orchestrates identity resolution against Spotify and
// the batched audio-feature fetch, producing one enriched record per
// matched track. Failures are contained: a bad track or a failed chunk
// never aborts the run.
package enrich

import (
	"context"
	"sort"
	"strings"

	"github.com/avelars/melodex/internal/constants"
	"github.com/avelars/melodex/internal/domain"
	"github.com/avelars/melodex/internal/library"
	"github.com/avelars/melodex/internal/logger"
	"github.com/avelars/melodex/internal/match"
	"github.com/avelars/melodex/internal/spotify"
)

// MatchedTrack pairs a library track with its resolved Spotify identity.
type MatchedTrack struct {
	LocalID    int
	SpotifyID  string
	Name       string
	Popularity int
	Features   *domain.AudioFeatures
}

// Stats aggregates the per-track outcomes of one pipeline run.
type Stats struct {
	Matched   int
	Unmatched int
	Failed    int
	Skipped   int
	Enriched  int
}

// Pipeline runs the resolution and fetch stages over a populated,
// de-duplicated library.
type Pipeline struct {
	client spotify.ClientInterface
	log    *logger.Logger
}

// NewPipeline creates a pipeline backed by the given Spotify client.
func NewPipeline(client spotify.ClientInterface, log *logger.Logger) *Pipeline {
	return &Pipeline{
		client: client,
		log:    log.WithComponent("enrich"),
	}
}

// Run resolves identities, fetches features, and combines the results
// into enriched records. It always returns best-effort output.
func (p *Pipeline) Run(ctx context.Context, lib *library.Library) ([]domain.EnrichedTrack, Stats) {
	var stats Stats
	matched := p.ResolveIdentities(ctx, lib, &stats)
	enriched := p.FetchFeatures(ctx, matched, &stats)
	records := Combine(lib, enriched)
	stats.Enriched = len(records)

	p.log.Info("Enrichment finished",
		"matched", stats.Matched,
		"unmatched", stats.Unmatched,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"enriched", stats.Enriched)
	return records, stats
}

// ResolveIdentities searches Spotify for every library track and keeps
// the first candidate accepted by the match policy. Unmatched tracks are
// recorded and processing continues.
func (p *Pipeline) ResolveIdentities(ctx context.Context, lib *library.Library, stats *Stats) []MatchedTrack {
	ids := make([]int, 0, len(lib.Tracks))
	for id := range lib.Tracks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var matched []MatchedTrack
	for _, id := range ids {
		track := lib.Tracks[id]
		log := p.log.WithTrack(track.ID, track.Name)

		candidates, err := p.client.SearchTracks(ctx, match.Query(track))
		if err != nil {
			log.Warn("Search failed, skipping track", "error", err)
			stats.Failed++
			continue
		}

		found := false
		for _, candidate := range candidates {
			if !match.IsMatch(track, match.Candidate{
				ID:         candidate.ID,
				Name:       candidate.Name,
				Artists:    candidate.Artists,
				Popularity: candidate.Popularity,
			}) {
				continue
			}
			track.SpotifyID = candidate.ID
			matched = append(matched, MatchedTrack{
				LocalID:    track.ID,
				SpotifyID:  candidate.ID,
				Name:       track.Name,
				Popularity: candidate.Popularity,
			})
			stats.Matched++
			found = true
			log.Debug("Match found", "spotify_id", candidate.ID)
			break
		}
		if !found {
			stats.Unmatched++
			log.Debug("No match found", "artists", strings.Join(track.Artists, ","))
		}
	}

	p.log.Info("Identity resolution finished", "matched", stats.Matched,
		"unmatched", stats.Unmatched, "failed", stats.Failed)
	return matched
}

// FetchFeatures retrieves audio features for the matched tracks in
// chunks of at most the service batch limit. A chunk whose request fails
// is abandoned without blocking later chunks; a track whose entry is
// absent or incomplete is dropped without affecting its siblings.
func (p *Pipeline) FetchFeatures(ctx context.Context, matched []MatchedTrack, stats *Stats) []MatchedTrack {
	var enriched []MatchedTrack

	for start := 0; start < len(matched); start += constants.MaxFeatureBatchSize {
		end := start + constants.MaxFeatureBatchSize
		if end > len(matched) {
			end = len(matched)
		}
		chunk := matched[start:end]

		ids := make([]string, len(chunk))
		for i, m := range chunk {
			ids[i] = m.SpotifyID
		}

		features, err := p.client.AudioFeatures(ctx, ids)
		if err != nil {
			p.log.Warn("Feature request failed, abandoning chunk",
				"from", start, "to", end, "error", err)
			stats.Failed += len(chunk)
			continue
		}

		for i, m := range chunk {
			if features[i] == nil {
				p.log.Debug("No usable features, skipping track",
					"track_id", m.LocalID, "spotify_id", m.SpotifyID)
				stats.Skipped++
				continue
			}
			m.Features = features[i]
			enriched = append(enriched, m)
		}
	}

	p.log.Info("Feature fetch finished", "enriched", len(enriched))
	return enriched
}

// Combine joins the fetched Spotify attributes with the library-sourced
// attributes into the final enriched records.
func Combine(lib *library.Library, matched []MatchedTrack) []domain.EnrichedTrack {
	records := make([]domain.EnrichedTrack, 0, len(matched))
	for _, m := range matched {
		track, ok := lib.Tracks[m.LocalID]
		if !ok || m.Features == nil {
			continue
		}
		records = append(records, domain.EnrichedTrack{
			ID:            track.ID,
			SpotifyID:     m.SpotifyID,
			Name:          track.Name,
			Artists:       strings.Join(track.Artists, ","),
			Genre:         lib.GenreName(track.GenreKey),
			Plays:         track.Plays,
			Rating:        track.Rating,
			Loved:         track.Loved,
			Year:          track.Year,
			Popularity:    m.Popularity,
			AudioFeatures: *m.Features,
		})
	}
	return records
}
