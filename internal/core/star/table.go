package star

import "factsongs/internal/core/catalog"

// Warehouse table names
const (
	TablePlaylist  = "dim_playlist"
	TableArtist    = "dim_artist"
	TableTrack     = "dim_track"
	TableUser      = "dim_user"
	TablePlatform  = "dim_platform"
	TableFactSongs = "fact_songs"
)

// Type is the logical column type; loaders map it to backend DDL
type Type uint8

const (
	String Type = iota
	Int64
	Bool
	Timestamp
)

func (t Type) String() string {
	switch t {
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	case Timestamp:
		return "timestamp"
	default:
		return "string"
	}
}

// Column describes one table column
type Column struct {
	Name     string
	Type     Type
	Nullable bool
}

// Table is the columnar unit handed to a loader. Every row holds one value
// per column in column order; null is a nil value.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// ColumnNames returns the column names in order
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Len is the number of rows
func (t Table) Len() int { return len(t.Rows) }

var (
	playlistColumns = []Column{
		{Name: "dim_playlist_id"}, {Name: "playlist_id"},
		{Name: "name", Nullable: true}, {Name: "description", Nullable: true},
	}
	artistColumns = []Column{
		{Name: "dim_artist_id"}, {Name: "artist_id"}, {Name: "name", Nullable: true},
	}
	trackColumns = []Column{
		{Name: "dim_track_id"}, {Name: "track_id"},
		{Name: "name", Nullable: true},
		{Name: "album_id", Nullable: true},
		{Name: "album_name", Nullable: true},
		{Name: "duration_ms", Type: Int64, Nullable: true},
		{Name: "explicit", Type: Bool, Nullable: true},
	}
	userColumns = []Column{
		{Name: "dim_user_id"}, {Name: "user_id"}, {Name: "spotify_id"}, {Name: "name", Nullable: true},
	}
	platformColumns = []Column{
		{Name: "dim_platform_id"}, {Name: "platform_id"}, {Name: "name"},
	}
	factColumns = []Column{
		{Name: "dim_playlist_id", Nullable: true},
		{Name: "dim_artist_id", Nullable: true},
		{Name: "dim_track_id", Nullable: true},
		{Name: "dim_user_id", Nullable: true},
		{Name: "dim_platform_id", Nullable: true},
		{Name: "added_at", Type: Timestamp, Nullable: true},
		{Name: "is_local", Type: Bool},
	}
)

// Schema returns the column layout for a known table name
func Schema(name string) ([]Column, bool) {
	switch name {
	case TablePlaylist:
		return playlistColumns, true
	case TableArtist:
		return artistColumns, true
	case TableTrack:
		return trackColumns, true
	case TableUser:
		return userColumns, true
	case TablePlatform:
		return platformColumns, true
	case TableFactSongs:
		return factColumns, true
	}
	return nil, false
}

// Tables converts the dimensions to columnar tables in load order:
// playlist, artist, track, user (when present), platform
func (d *Dimensions) Tables() []Table {
	out := []Table{
		build(TablePlaylist, playlistColumns, d.Playlists, func(k Keyed[PlaylistRow]) []any {
			return []any{k.Key, k.Row.PlaylistID, str(k.Row.Name), str(k.Row.Description)}
		}),
		build(TableArtist, artistColumns, d.Artists, func(k Keyed[ArtistRow]) []any {
			return []any{k.Key, k.Row.ArtistID, str(k.Row.Name)}
		}),
		build(TableTrack, trackColumns, d.Tracks, func(k Keyed[TrackRow]) []any {
			r := k.Row
			return []any{k.Key, r.TrackID, str(r.Name), str(r.AlbumID), str(r.AlbumName), i64(r.DurationMS), boolean(r.Explicit)}
		}),
	}
	if d.Users != nil {
		out = append(out, build(TableUser, userColumns, d.Users, func(k Keyed[catalog.User]) []any {
			return []any{k.Key, k.Row.UserID, k.Row.SpotifyID, str(k.Row.Name)}
		}))
	}
	return append(out, build(TablePlatform, platformColumns, d.Platforms, func(k Keyed[PlatformRow]) []any {
		return []any{k.Key, k.Row.PlatformID, k.Row.Name}
	}))
}

// FactTable converts facts to the fact_songs table
func FactTable(facts []Fact) Table {
	return build(TableFactSongs, factColumns, facts, func(f Fact) []any {
		var added any
		if f.AddedAt != nil {
			added = *f.AddedAt
		}
		return []any{str(f.PlaylistKey), str(f.ArtistKey), str(f.TrackKey), str(f.UserKey), str(f.PlatformKey), added, f.IsLocal}
	})
}

func build[R any](name string, cols []Column, rows []R, row func(R) []any) Table {
	t := Table{Name: name, Columns: cols, Rows: make([][]any, len(rows))}
	for i, r := range rows {
		t.Rows[i] = row(r)
	}
	return t
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func i64(p *int) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func boolean(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}
