package catalog

import (
	"testing"

	perr "factsongs/internal/platform/errors"
)

const playlistsDoc = `[
  {"spotify_id": "u1", "name": "Bruna", "playlists": [
    {"id": "P1", "name": "Road trip", "description": ""},
    {"id": "P2", "name": null}
  ]},
  {"spotify_id": "u2", "playlists": []}
]`

const tracksDoc = `[
  {"playlist_id": "P1", "tracks": [
    {"id": "T1", "name": "Song", "duration_ms": 1000, "explicit": false,
     "album": {"id": "AL1", "name": "Album"},
     "artists": [{"id": "A1", "name": "One"}, {"id": null, "name": "Local"}],
     "added_at": "2024-01-01T00:00:00Z", "is_local": false},
    {"id": null, "name": "Home demo", "artists": [], "added_at": null, "is_local": true}
  ]}
]`

func TestDecodePlaylists(t *testing.T) {
	doc, err := DecodePlaylists([]byte(playlistsDoc))
	if err != nil {
		t.Fatalf("DecodePlaylists: %v", err)
	}
	if len(doc) != 2 || len(doc[0].Playlists) != 2 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc[0].Playlists[1].Name != nil {
		t.Fatalf("null name should decode to nil")
	}
	if doc[0].Playlists[0].Description == nil || *doc[0].Playlists[0].Description != "" {
		t.Fatalf("empty description should be kept as empty string")
	}
}

func TestDecodeTracksNullables(t *testing.T) {
	doc, err := DecodeTracks([]byte(tracksDoc))
	if err != nil {
		t.Fatalf("DecodeTracks: %v", err)
	}
	tr := doc[0].Tracks
	if len(tr) != 2 {
		t.Fatalf("tracks = %d", len(tr))
	}
	if tr[0].Artists[1].ID != nil {
		t.Fatalf("null artist id should be nil")
	}
	if tr[1].ID != nil || tr[1].AddedAt != nil || !tr[1].IsLocal {
		t.Fatalf("local track = %+v", tr[1])
	}
}

func TestDecodeRejectsMissingRequired(t *testing.T) {
	_, err := DecodePlaylists([]byte(`[{"spotify_id":"u1","playlists":[{"name":"x"}]}]`))
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("code = %v (%v)", perr.CodeOf(err), err)
	}
	e, _ := perr.As(err)
	if e.Field() != "[0].playlists[0].id" {
		t.Fatalf("field = %q", e.Field())
	}

	_, err = DecodeTracks([]byte(`[{"tracks":[]}]`))
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("missing playlist_id: %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{``, `{`, `{"spotify_id":"u"}`, `[{"spotify_id": 5}]`} {
		if _, err := DecodePlaylists([]byte(in)); !perr.IsCode(err, perr.ErrorCodeJSON) {
			t.Fatalf("input %q: err = %v", in, err)
		}
	}
}

func TestEncodeEmptyIsEmptyArray(t *testing.T) {
	for name, encode := range map[string]func() ([]byte, error){
		"nil tracks":      func() ([]byte, error) { return Encode(TrackSnapshot(nil)) },
		"empty tracks":    func() ([]byte, error) { return Encode(TrackSnapshot{}) },
		"nil playlists":   func() ([]byte, error) { return Encode(PlaylistSnapshot(nil)) },
		"empty playlists": func() ([]byte, error) { return Encode(PlaylistSnapshot{}) },
	} {
		b, err := encode()
		if err != nil || string(b) != "[]" {
			t.Fatalf("%s: Encode = %s, %v", name, b, err)
		}
	}

	b, err := Encode(PlaylistSnapshot{{SpotifyID: "u1", Playlists: []Playlist{{ID: "P1"}}}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	doc, err := DecodePlaylists(b)
	if err != nil || len(doc) != 1 || doc[0].Playlists[0].ID != "P1" {
		t.Fatalf("DecodePlaylists(%s) = %+v, %v", b, doc, err)
	}
}
