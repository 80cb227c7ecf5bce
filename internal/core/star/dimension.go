package star

import (
	"factsongs/internal/core/catalog"
	"factsongs/internal/core/dedup"
	"factsongs/internal/core/keys"
)

// Keyed pairs a dimension row with its surrogate key
type Keyed[R any] struct {
	Key string
	Row R
}

// Dimensions holds every dimension built for one run
// Users is nil when no user registry is configured
type Dimensions struct {
	Playlists []Keyed[PlaylistRow]
	Artists   []Keyed[ArtistRow]
	Tracks    []Keyed[TrackRow]
	Users     []Keyed[catalog.User]
	Platforms []Keyed[PlatformRow]
}

// BuildDimensions extracts, dedups on natural key (first seen wins) and
// assigns fresh surrogate keys. Keys are unique across all dimensions of the run.
// Pass users as nil to skip the user dimension.
func BuildDimensions(playlists catalog.PlaylistSnapshot, tracks catalog.TrackSnapshot, users []catalog.User, gen keys.Generator) (*Dimensions, error) {
	a := keys.NewAssigner(gen)
	d := &Dimensions{}
	var err error

	if d.Playlists, err = keyed(a, dedup.ByKey(ExtractPlaylists(playlists), func(r PlaylistRow) string { return r.PlaylistID })); err != nil {
		return nil, err
	}
	if d.Artists, err = keyed(a, dedup.ByKey(ExtractArtists(tracks), func(r ArtistRow) string { return r.ArtistID })); err != nil {
		return nil, err
	}
	if d.Tracks, err = keyed(a, dedup.ByKey(ExtractTracks(tracks), func(r TrackRow) string { return r.TrackID })); err != nil {
		return nil, err
	}
	if users != nil {
		us := dedup.ByKey(users, func(u catalog.User) string { return u.UserID })
		if d.Users, err = keyed(a, us); err != nil {
			return nil, err
		}
		if d.Users == nil {
			d.Users = []Keyed[catalog.User]{}
		}
	}
	if d.Platforms, err = keyed(a, []PlatformRow{Spotify}); err != nil {
		return nil, err
	}
	return d, nil
}

func keyed[R any](a *keys.Assigner, rows []R) ([]Keyed[R], error) {
	ids, err := a.Assign(len(rows))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]Keyed[R], len(rows))
	for i, r := range rows {
		out[i] = Keyed[R]{Key: ids[i], Row: r}
	}
	return out, nil
}

// index maps natural key to surrogate key
func index[R any](rows []Keyed[R], natural func(R) string) map[string]string {
	m := make(map[string]string, len(rows))
	for _, k := range rows {
		nk := natural(k.Row)
		if _, seen := m[nk]; !seen {
			m[nk] = k.Key
		}
	}
	return m
}
