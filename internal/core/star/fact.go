package star

import (
	"time"

	"factsongs/internal/core/catalog"
	"factsongs/internal/core/dedup"

	"github.com/araddon/dateparse"
)

// Fact is one fact_songs row; nil keys mean the dimension had no match
type Fact struct {
	PlaylistKey *string
	ArtistKey   *string
	TrackKey    *string
	UserKey     *string
	PlatformKey *string
	AddedAt     *time.Time
	IsLocal     bool
}

// opt is a comparable optional string so candidates can be deduped by value
type opt struct {
	v  string
	ok bool
}

func optOf(s *string) opt {
	if s == nil {
		return opt{}
	}
	return opt{v: *s, ok: true}
}

type candidate struct {
	playlistID string
	artistID   opt
	trackID    opt
	spotifyID  opt
	platformID string
	addedAt    opt
	isLocal    bool
}

// AssembleFacts builds one fact per distinct (membership entry, artist) pair
// and resolves dimension keys with left-join semantics: a missing match
// leaves the key nil and keeps the row.
func AssembleFacts(playlists catalog.PlaylistSnapshot, tracks catalog.TrackSnapshot, dims *Dimensions) []Fact {
	owners := ownersByPlaylist(playlists)

	var cands []candidate
	for _, pl := range tracks {
		owner, hasOwner := owners[pl.PlaylistID]
		for _, t := range pl.Tracks {
			for _, a := range t.Artists {
				c := candidate{
					playlistID: pl.PlaylistID,
					artistID:   optOf(a.ID),
					trackID:    optOf(t.ID),
					platformID: Spotify.PlatformID,
					addedAt:    optOf(t.AddedAt),
					isLocal:    t.IsLocal,
				}
				if hasOwner {
					c.spotifyID = opt{v: owner, ok: true}
				}
				cands = append(cands, c)
			}
		}
	}
	cands = dedup.Rows(cands)
	if len(cands) == 0 {
		return nil
	}

	if dims == nil {
		dims = &Dimensions{}
	}
	playlistKeys := index(dims.Playlists, func(r PlaylistRow) string { return r.PlaylistID })
	artistKeys := index(dims.Artists, func(r ArtistRow) string { return r.ArtistID })
	trackKeys := index(dims.Tracks, func(r TrackRow) string { return r.TrackID })
	platformKeys := index(dims.Platforms, func(r PlatformRow) string { return r.PlatformID })

	// spotify account -> registry user -> dim_user key
	userKeys := make(map[string]string, len(dims.Users))
	for _, u := range dims.Users {
		if _, seen := userKeys[u.Row.SpotifyID]; !seen {
			userKeys[u.Row.SpotifyID] = u.Key
		}
	}

	out := make([]Fact, len(cands))
	for i, c := range cands {
		f := Fact{
			PlaylistKey: lookup(playlistKeys, opt{v: c.playlistID, ok: true}),
			ArtistKey:   lookup(artistKeys, c.artistID),
			TrackKey:    lookup(trackKeys, c.trackID),
			UserKey:     lookup(userKeys, c.spotifyID),
			PlatformKey: lookup(platformKeys, opt{v: c.platformID, ok: true}),
			IsLocal:     c.isLocal,
		}
		if c.addedAt.ok {
			f.AddedAt = ParseAddedAt(c.addedAt.v)
		}
		out[i] = f
	}
	return out
}

// ownersByPlaylist maps playlist id to the spotify id of its owner
// a listing user whose id matches the playlist's owner_id wins; otherwise the
// last user listing it, since followers see the playlist too
func ownersByPlaylist(doc catalog.PlaylistSnapshot) map[string]string {
	m := make(map[string]string)
	owned := make(map[string]bool)
	for _, u := range doc {
		for _, p := range u.Playlists {
			if owned[p.ID] {
				continue
			}
			m[p.ID] = u.SpotifyID
			if p.OwnerID != nil && *p.OwnerID == u.SpotifyID {
				owned[p.ID] = true
			}
		}
	}
	return m
}

func lookup(m map[string]string, k opt) *string {
	if !k.ok {
		return nil
	}
	if v, ok := m[k.v]; ok {
		return &v
	}
	return nil
}

// ParseAddedAt reads an added_at stamp as a UTC instant
// RFC3339 first, then a lenient parse; nil when neither understands it
func ParseAddedAt(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t = t.UTC()
		return &t
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
