// Package catalog defines the landed snapshot documents and their decoding
//
// Two documents are written per extraction date:
//
//	{domain}/playlists/{date}.json  PlaylistSnapshot, one entry per registry user
//	{domain}/tracks/{date}.json     TrackSnapshot, one entry per playlist
//
// Optional attributes are pointers so absent and JSON null stay distinguishable
// from empty strings.
package catalog

import (
	"encoding/json"
	"fmt"

	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/validate"
)

// Snapshot kinds, used as the middle segment of snapshot keys
const (
	KindPlaylists = "playlists"
	KindTracks    = "tracks"
)

// Playlist is one playlist owned or followed by a user
type Playlist struct {
	ID          string  `json:"id" validate:"required"`
	Name        *string `json:"name"`
	Description *string `json:"description,omitempty"`
	OwnerID     *string `json:"owner_id,omitempty"`
}

// UserPlaylists groups the playlists listed for one registry user
type UserPlaylists struct {
	SpotifyID string     `json:"spotify_id" validate:"required"`
	Name      *string    `json:"name,omitempty"`
	Playlists []Playlist `json:"playlists" validate:"dive"`
}

// PlaylistSnapshot is the landed playlist document
type PlaylistSnapshot []UserPlaylists

// Artist is a credited artist on a track; local files may carry a null id
type Artist struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// Album is the release a track belongs to
type Album struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// Track is one playlist membership entry: the track plus when and how it was added
type Track struct {
	ID         *string  `json:"id"`
	Name       *string  `json:"name"`
	DurationMS *int     `json:"duration_ms,omitempty"`
	Explicit   *bool    `json:"explicit,omitempty"`
	Album      *Album   `json:"album,omitempty"`
	Artists    []Artist `json:"artists"`
	AddedAt    *string  `json:"added_at"`
	IsLocal    bool     `json:"is_local"`
}

// PlaylistTracks groups every membership entry drained for one playlist
type PlaylistTracks struct {
	PlaylistID string  `json:"playlist_id" validate:"required"`
	Tracks     []Track `json:"tracks"`
}

// TrackSnapshot is the landed track document
type TrackSnapshot []PlaylistTracks

// DecodePlaylists parses and validates a playlist document
func DecodePlaylists(b []byte) (PlaylistSnapshot, error) {
	return decode[UserPlaylists](b, KindPlaylists)
}

// DecodeTracks parses and validates a track document
func DecodeTracks(b []byte) (TrackSnapshot, error) {
	return decode[PlaylistTracks](b, KindTracks)
}

// Encode renders a document the way it is landed
// an empty or nil document lands as []
func Encode[T PlaylistSnapshot | TrackSnapshot](doc T) ([]byte, error) {
	if len(doc) == 0 {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "catalog: encode")
	}
	return b, nil
}

func decode[E any](b []byte, kind string) ([]E, error) {
	var doc []E
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "catalog: decode %s snapshot", kind)
	}
	for i := range doc {
		if err := validate.Struct(doc[i]); err != nil {
			field := fmt.Sprintf("[%d]", i)
			if e, ok := perr.As(err); ok && e.Field() != "" {
				field += "." + e.Field()
			}
			return nil, perr.WithField(
				perr.Wrapf(err, perr.ErrorCodeValidation, "catalog: %s snapshot entry %d", kind, i),
				field)
		}
	}
	return doc, nil
}

// User is one registry row: the internal user id and the linked Spotify account
type User struct {
	UserID    string  `json:"user_id" db:"user_id"`
	SpotifyID string  `json:"spotify_id" db:"spotify_id"`
	Name      *string `json:"name,omitempty" db:"name"`
}
