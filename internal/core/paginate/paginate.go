// Package paginate drains offset-paginated collections into a single list
//
// A collection is read by requesting (limit, offset) windows starting at
// offset 0 and advancing offset by limit after every page. The only stop
// condition is a page whose Next link is absent; short or empty pages do not
// end the walk on their own. Any page error aborts the drain and nothing is
// returned, so callers never observe a partial collection.
package paginate

import (
	"context"

	perr "factsongs/internal/platform/errors"
)

// Page is one window of a collection
type Page[T any] struct {
	Items []T
	// Next is the server's link to the following page, nil on the last page
	Next *string
}

// Last reports whether this page terminates the collection
func (p Page[T]) Last() bool { return p.Next == nil }

// PageFunc fetches the window starting at offset with at most limit items
type PageFunc[T any] func(ctx context.Context, limit, offset int) (Page[T], error)

// Option tunes a drain
type Option func(*options)

type options struct {
	maxPages int
	onPage   func(offset, n int)
}

// WithMaxPages aborts the drain with an error after n pages without a terminal page
// n <= 0 means no bound
func WithMaxPages(n int) Option { return func(o *options) { o.maxPages = n } }

// WithPageHook calls fn after each successful page with its offset and item count
func WithPageHook(fn func(offset, n int)) Option { return func(o *options) { o.onPage = fn } }

// Drain fetches every page of a collection in server order
func Drain[T any](ctx context.Context, limit int, fetch PageFunc[T], opts ...Option) ([]T, error) {
	if limit <= 0 {
		return nil, perr.InvalidArgf("paginate: limit must be positive, got %d", limit)
	}
	if fetch == nil {
		return nil, perr.InvalidArgf("paginate: nil fetch func")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var out []T
	for offset, pages := 0, 0; ; offset += limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if o.maxPages > 0 && pages >= o.maxPages {
			return nil, perr.Newf(perr.ErrorCodeUpstream,
				"paginate: no terminal page after %d pages (offset %d)", pages, offset)
		}

		page, err := fetch(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		pages++
		out = append(out, page.Items...)
		if o.onPage != nil {
			o.onPage(offset, len(page.Items))
		}
		if page.Last() {
			return out, nil
		}
	}
}
