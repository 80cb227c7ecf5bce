// Package star turns landed snapshots into the star schema: cleaned entity
// rows, keyed dimensions, the membership fact and the columnar tables handed
// to the warehouse
package star

import (
	"factsongs/internal/core/catalog"
	"factsongs/internal/core/textclean"
)

// PlaylistRow is a playlist candidate before dedup and key assignment
type PlaylistRow struct {
	PlaylistID  string
	Name        *string
	Description *string
}

// ArtistRow is an artist candidate
type ArtistRow struct {
	ArtistID string
	Name     *string
}

// TrackRow is a track candidate
type TrackRow struct {
	TrackID    string
	Name       *string
	AlbumID    *string
	AlbumName  *string
	DurationMS *int
	Explicit   *bool
}

// PlatformRow is a source platform
type PlatformRow struct {
	PlatformID string
	Name       string
}

// Spotify is the only platform currently extracted
var Spotify = PlatformRow{PlatformID: "spotify", Name: "Spotify"}

// ExtractPlaylists lists every playlist of every user, duplicates included
func ExtractPlaylists(doc catalog.PlaylistSnapshot) []PlaylistRow {
	var out []PlaylistRow
	for _, u := range doc {
		for _, p := range u.Playlists {
			out = append(out, PlaylistRow{
				PlaylistID:  p.ID,
				Name:        textclean.NamePtr(p.Name),
				Description: p.Description,
			})
		}
	}
	return out
}

// ExtractArtists lists every credited artist over every membership entry
// artists without an id have no natural key and are dropped
func ExtractArtists(doc catalog.TrackSnapshot) []ArtistRow {
	var out []ArtistRow
	for _, pl := range doc {
		for _, t := range pl.Tracks {
			for _, a := range t.Artists {
				if a.ID == nil || *a.ID == "" {
					continue
				}
				out = append(out, ArtistRow{ArtistID: *a.ID, Name: textclean.NamePtr(a.Name)})
			}
		}
	}
	return out
}

// ExtractTracks emits one candidate per membership entry with a track id
func ExtractTracks(doc catalog.TrackSnapshot) []TrackRow {
	var out []TrackRow
	for _, pl := range doc {
		for _, t := range pl.Tracks {
			if t.ID == nil || *t.ID == "" {
				continue
			}
			r := TrackRow{
				TrackID:    *t.ID,
				Name:       textclean.NamePtr(t.Name),
				DurationMS: t.DurationMS,
				Explicit:   t.Explicit,
			}
			if t.Album != nil {
				r.AlbumID = t.Album.ID
				r.AlbumName = textclean.NamePtr(t.Album.Name)
			}
			out = append(out, r)
		}
	}
	return out
}
