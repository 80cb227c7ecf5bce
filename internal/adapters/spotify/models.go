package spotify

import "factsongs/internal/core/catalog"

// Paging is the Web API paging envelope
type Paging[T any] struct {
	Items  []T     `json:"items"`
	Next   *string `json:"next"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Total  int     `json:"total"`
}

// Owner is the public profile that owns a playlist
type Owner struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"display_name"`
}

// Playlist is a simplified playlist object
type Playlist struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Owner       *Owner  `json:"owner"`
}

// Artist is a simplified artist object
type Artist struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// Album is a simplified album object
type Album struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// Track is a full track object; local files have a null id
type Track struct {
	ID         *string  `json:"id"`
	Name       *string  `json:"name"`
	DurationMS *int     `json:"duration_ms"`
	Explicit   *bool    `json:"explicit"`
	Album      *Album   `json:"album"`
	Artists    []Artist `json:"artists"`
}

// PlaylistItem is one playlist membership entry; Track is null for removed content
type PlaylistItem struct {
	AddedAt *string `json:"added_at"`
	IsLocal bool    `json:"is_local"`
	Track   *Track  `json:"track"`
}

// Catalog converts the wire playlist to the landed shape
func (p Playlist) Catalog() catalog.Playlist {
	out := catalog.Playlist{ID: p.ID, Name: p.Name, Description: p.Description}
	if p.Owner != nil && p.Owner.ID != "" {
		id := p.Owner.ID
		out.OwnerID = &id
	}
	return out
}

// Catalog converts a membership entry to the landed shape
// ok is false when the entry has no track object
func (it PlaylistItem) Catalog() (catalog.Track, bool) {
	if it.Track == nil {
		return catalog.Track{}, false
	}
	t := it.Track
	out := catalog.Track{
		ID:         t.ID,
		Name:       t.Name,
		DurationMS: t.DurationMS,
		Explicit:   t.Explicit,
		AddedAt:    it.AddedAt,
		IsLocal:    it.IsLocal,
		Artists:    make([]catalog.Artist, len(t.Artists)),
	}
	if t.Album != nil {
		out.Album = &catalog.Album{ID: t.Album.ID, Name: t.Album.Name}
	}
	for i, a := range t.Artists {
		out.Artists[i] = catalog.Artist{ID: a.ID, Name: a.Name}
	}
	return out, true
}
