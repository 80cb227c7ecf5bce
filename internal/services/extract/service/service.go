// Package service runs one extraction: token, registry users, every user's
// playlists, every playlist's tracks, then both snapshot documents.
// Nothing is written unless every page was fetched.
package service

import (
	"context"
	"time"

	"factsongs/internal/adapters/snapshot"
	"factsongs/internal/adapters/spotify"
	"factsongs/internal/adapters/users"
	"factsongs/internal/core/catalog"
	"factsongs/internal/core/paginate"
	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/logger"
	"factsongs/internal/platform/metrics"
	ptime "factsongs/internal/platform/time"
	"factsongs/internal/services/extract/domain"
	rundomain "factsongs/internal/services/runlog/domain"
)

// Config tunes the extraction
type Config struct {
	// Domain is the first segment of snapshot keys
	Domain string
	// PageSize is the limit sent with every collection request
	PageSize int
	// MaxPages bounds a single collection drain, 0 means unbounded
	MaxPages int
}

// Service implements domain.RunnerPort
type Service struct {
	Tokens    spotify.TokenProvider
	Catalog   spotify.Catalog
	Users     users.Registry
	Snapshots snapshot.Store
	Ledger    rundomain.LedgerPort
	Guard     rundomain.GuardPort
	Metrics   *metrics.Pipeline
	Cfg       Config
}

var _ domain.RunnerPort = (*Service)(nil)

// New constructs the service with defaults filled in
// Guard is left nil; set it to serialize runs across processes
func New(tokens spotify.TokenProvider, cat spotify.Catalog, reg users.Registry, snaps snapshot.Store, ledger rundomain.LedgerPort, m *metrics.Pipeline, cfg Config) *Service {
	if cfg.Domain == "" {
		cfg.Domain = "spotify"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &Service{
		Tokens:    tokens,
		Catalog:   cat,
		Users:     reg,
		Snapshots: snaps,
		Ledger:    ledger,
		Metrics:   m,
		Cfg:       cfg,
	}
}

// Run executes one extraction for date
func (s *Service) Run(ctx context.Context, date string) (res domain.Result, err error) {
	d, derr := ptime.ParseDate(date)
	if derr != nil {
		return res, perr.Wrapf(derr, perr.ErrorCodeInvalidArgument, "extract: bad date %q", date)
	}
	res.Date = d

	var run rundomain.Run
	if s.Ledger != nil {
		run = s.Ledger.Begin(ctx, rundomain.StageExtract, d)
	}
	res.RunID = run.ID
	ctx = logger.WithRun(ctx, run.ID, rundomain.StageExtract)
	start := time.Now()
	log := logger.C(ctx)
	log.Info().Str("date", d).Msg("extract: started")

	defer func() {
		s.Metrics.RunFinished(rundomain.StageExtract, start, err)
		if s.Ledger != nil {
			s.Ledger.Finish(ctx, run, res.Counters(), err)
		}
		if err != nil {
			log.Error().Err(err).Str("kind", perr.Kind(err)).Msg("extract: failed")
			return
		}
		log.Info().
			Int("users", res.Users).
			Int("playlists", res.Playlists).
			Int("tracks", res.Tracks).
			Dur("elapsed", time.Since(start)).
			Msg("extract: finished")
	}()

	work := func(ctx context.Context) error { return s.extract(ctx, d, &res) }
	if s.Guard != nil {
		err = s.Guard.Do(ctx, rundomain.LeaseName, work)
	} else {
		err = work(ctx)
	}
	return res, err
}

// extract fetches everything for d and lands both snapshots, filling res as it goes
func (s *Service) extract(ctx context.Context, d string, res *domain.Result) error {
	if s.Users == nil {
		return perr.InvalidArgf("extract: no user registry configured")
	}

	cred, err := s.Tokens.Acquire(ctx)
	if err != nil {
		return err
	}

	registered, err := s.Users.Users(ctx)
	if err != nil {
		return err
	}
	res.Users = len(registered)

	playlistDoc := make(catalog.PlaylistSnapshot, 0, len(registered))
	var order []string
	seen := map[string]struct{}{}
	for _, u := range registered {
		items, err := paginate.Drain(ctx, s.Cfg.PageSize, func(ctx context.Context, limit, offset int) (paginate.Page[spotify.Playlist], error) {
			return s.Catalog.UserPlaylists(ctx, cred, u.SpotifyID, limit, offset)
		}, s.drainOpts(ctx, "playlists", u.SpotifyID)...)
		if err != nil {
			return perr.WithOp(err, "user_playlists")
		}

		entry := catalog.UserPlaylists{
			SpotifyID: u.SpotifyID,
			Name:      u.Name,
			Playlists: make([]catalog.Playlist, 0, len(items)),
		}
		for _, p := range items {
			// an id-less entry could not be decoded back from the snapshot
			if p.ID == "" {
				continue
			}
			entry.Playlists = append(entry.Playlists, p.Catalog())
			if _, ok := seen[p.ID]; !ok {
				seen[p.ID] = struct{}{}
				order = append(order, p.ID)
			}
		}
		res.Playlists += len(entry.Playlists)
		playlistDoc = append(playlistDoc, entry)
	}

	trackDoc := make(catalog.TrackSnapshot, 0, len(order))
	for _, id := range order {
		items, err := paginate.Drain(ctx, s.Cfg.PageSize, func(ctx context.Context, limit, offset int) (paginate.Page[spotify.PlaylistItem], error) {
			return s.Catalog.PlaylistTracks(ctx, cred, id, limit, offset)
		}, s.drainOpts(ctx, "tracks", id)...)
		if err != nil {
			return perr.WithOp(err, "playlist_tracks")
		}

		entry := catalog.PlaylistTracks{PlaylistID: id, Tracks: make([]catalog.Track, 0, len(items))}
		for _, it := range items {
			if t, ok := it.Catalog(); ok {
				entry.Tracks = append(entry.Tracks, t)
			}
		}
		res.Tracks += len(entry.Tracks)
		trackDoc = append(trackDoc, entry)
	}

	pb, err := catalog.Encode(playlistDoc)
	if err != nil {
		return err
	}
	tb, err := catalog.Encode(trackDoc)
	if err != nil {
		return err
	}
	for _, doc := range []struct {
		kind string
		body []byte
	}{{catalog.KindPlaylists, pb}, {catalog.KindTracks, tb}} {
		key := snapshot.Key(s.Cfg.Domain, doc.kind, d)
		if err := s.Snapshots.Put(ctx, key, doc.body); err != nil {
			return err
		}
		res.Keys = append(res.Keys, key)
		logger.C(ctx).Debug().Str("key", key).Int("bytes", len(doc.body)).Msg("extract: snapshot written")
	}
	return nil
}

func (s *Service) drainOpts(ctx context.Context, collection, owner string) []paginate.Option {
	log := logger.C(ctx)
	opts := []paginate.Option{
		paginate.WithPageHook(func(offset, n int) {
			s.Metrics.PageFetched(collection, n)
			log.Debug().Str("collection", collection).Str("owner", owner).
				Int("offset", offset).Int("items", n).Msg("extract: page")
		}),
	}
	if s.Cfg.MaxPages > 0 {
		opts = append(opts, paginate.WithMaxPages(s.Cfg.MaxPages))
	}
	return opts
}
