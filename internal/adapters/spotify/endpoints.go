package spotify

import (
	"context"
	"net/url"

	"factsongs/internal/core/paginate"
)

// Catalog is the read surface the extraction drains
type Catalog interface {
	UserPlaylists(ctx context.Context, cred Credential, userID string, limit, offset int) (paginate.Page[Playlist], error)
	PlaylistTracks(ctx context.Context, cred Credential, playlistID string, limit, offset int) (paginate.Page[PlaylistItem], error)
}

var _ Catalog = (*Client)(nil)

// UserPlaylists fetches one page of a user's public playlists
func (c *Client) UserPlaylists(ctx context.Context, cred Credential, userID string, limit, offset int) (paginate.Page[Playlist], error) {
	return page[Playlist](ctx, c, cred, "/users/"+url.PathEscape(userID)+"/playlists", limit, offset)
}

// PlaylistTracks fetches one page of a playlist's membership entries
func (c *Client) PlaylistTracks(ctx context.Context, cred Credential, playlistID string, limit, offset int) (paginate.Page[PlaylistItem], error) {
	return page[PlaylistItem](ctx, c, cred, "/playlists/"+url.PathEscape(playlistID)+"/tracks", limit, offset)
}

func page[T any](ctx context.Context, c *Client, cred Credential, path string, limit, offset int) (paginate.Page[T], error) {
	var p Paging[T]
	if err := c.get(ctx, cred, path, pageQuery(limit, offset), &p); err != nil {
		return paginate.Page[T]{}, err
	}
	return paginate.Page[T]{Items: p.Items, Next: p.Next}, nil
}
