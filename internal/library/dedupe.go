package library

import (
	"fmt"
	"sort"
)

// DedupeStats counts the graph entities removed by MergeDuplicates.
type DedupeStats struct {
	Tracks  int
	Albums  int
	Artists int
}

// MergeDuplicates collapses tracks sharing a duplicate identifier into
// one record and excises emptied albums and artists.
//
// The merged track carries the sum of play counts, the mean of the
// non-nil ratings (nil when none carried one), and the OR of the loved
// flags. The survivor is the duplicate on the preferred album: the most
// recent year wins, and on equal years the album currently holding more
// tracks wins.
func (l *Library) MergeDuplicates() DedupeStats {
	ids := make([]int, 0, len(l.Tracks))
	for id := range l.Tracks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	groups := make(map[string][]int)
	var order []string
	for _, id := range ids {
		ident := l.Tracks[id].Identifier()
		if _, ok := groups[ident]; !ok {
			order = append(order, ident)
		}
		groups[ident] = append(groups[ident], id)
	}

	var stats DedupeStats
	for _, ident := range order {
		group := groups[ident]
		if len(group) < 2 {
			continue
		}
		l.mergeGroup(group, &stats)
	}
	return stats
}

func (l *Library) mergeGroup(group []int, stats *DedupeStats) {
	var (
		plays       int
		ratingSum   float64
		ratingCount int
		loved       bool
	)

	first := l.Tracks[group[0]]
	survivorID := first.ID
	prefKey := first.AlbumKey
	prefCount := len(l.mustAlbum(prefKey).Tracks)

	for _, id := range group {
		t := l.Tracks[id]

		if id != group[0] && t.AlbumKey != prefKey {
			candidate := l.mustAlbum(t.AlbumKey)
			switch yearDiff := t.AlbumKey.Year - prefKey.Year; {
			case yearDiff > 0:
				survivorID = id
				prefKey = t.AlbumKey
				prefCount = len(candidate.Tracks)
			case yearDiff == 0:
				if len(candidate.Tracks) > prefCount {
					survivorID = id
					prefKey = t.AlbumKey
					prefCount = len(candidate.Tracks)
				}
			}
		}

		plays += t.Plays
		if t.Rating != nil {
			ratingSum += *t.Rating
			ratingCount++
		}
		loved = loved || t.Loved
	}

	survivor := l.Tracks[survivorID]
	survivor.Plays = plays
	if ratingCount > 0 {
		rating := ratingSum / float64(ratingCount)
		survivor.Rating = &rating
	} else {
		survivor.Rating = nil
	}
	survivor.Loved = loved

	for _, id := range group {
		if id == survivorID {
			continue
		}
		l.removeTrack(id, stats)
	}
}

// removeTrack deletes a track and cascades: an album left with no tracks
// is removed, and an artist left with no albums is removed. Artists
// already removed by an earlier cascade step are skipped.
func (l *Library) removeTrack(id int, stats *DedupeStats) {
	t := l.Tracks[id]
	album := l.mustAlbum(t.AlbumKey)

	delete(l.Tracks, id)
	stats.Tracks++

	delete(album.Tracks, id)
	if len(album.Tracks) > 0 {
		return
	}

	for name := range album.Artists {
		artist, ok := l.Artists[name]
		if !ok {
			continue
		}
		delete(artist.Albums, t.AlbumKey)
		if len(artist.Albums) == 0 {
			delete(l.Artists, name)
			stats.Artists++
		}
	}

	delete(l.Albums, t.AlbumKey)
	stats.Albums++
}

func (l *Library) mustAlbum(key AlbumKey) *Album {
	album, ok := l.Albums[key]
	if !ok {
		panic(fmt.Sprintf("library: track references missing album %q (%d)", key.Name, key.Year))
	}
	return album
}
