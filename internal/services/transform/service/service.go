// Package service runs one transformation: both snapshots for a date become
// five dimension tables and the fact table, each replaced whole.
package service

import (
	"context"
	"time"

	"factsongs/internal/adapters/snapshot"
	"factsongs/internal/adapters/users"
	"factsongs/internal/adapters/warehouse"
	"factsongs/internal/core/catalog"
	"factsongs/internal/core/keys"
	"factsongs/internal/core/star"
	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/logger"
	"factsongs/internal/platform/metrics"
	ptime "factsongs/internal/platform/time"
	rundomain "factsongs/internal/services/runlog/domain"
	"factsongs/internal/services/transform/domain"
)

// Config tunes the transformation
type Config struct {
	// Domain is the first segment of snapshot keys
	Domain string
}

// Service implements domain.RunnerPort
type Service struct {
	Snapshots snapshot.Store
	// Users is optional; without it dim_user is not loaded and owner keys stay null
	Users   users.Registry
	Loader  warehouse.Loader
	Keys    keys.Generator
	Ledger  rundomain.LedgerPort
	Guard   rundomain.GuardPort
	Metrics *metrics.Pipeline
	Cfg     Config
}

var _ domain.RunnerPort = (*Service)(nil)

// New constructs the service; a nil key generator means UUIDs
func New(snaps snapshot.Store, reg users.Registry, loader warehouse.Loader, gen keys.Generator, ledger rundomain.LedgerPort, m *metrics.Pipeline, cfg Config) *Service {
	if cfg.Domain == "" {
		cfg.Domain = "spotify"
	}
	if gen == nil {
		gen = keys.UUID()
	}
	return &Service{
		Snapshots: snaps,
		Users:     reg,
		Loader:    loader,
		Keys:      gen,
		Ledger:    ledger,
		Metrics:   m,
		Cfg:       cfg,
	}
}

// Run executes one transformation for date
func (s *Service) Run(ctx context.Context, date string) (res domain.Result, err error) {
	d, derr := ptime.ParseDate(date)
	if derr != nil {
		return res, perr.Wrapf(derr, perr.ErrorCodeInvalidArgument, "transform: bad date %q", date)
	}
	res.Date = d

	var run rundomain.Run
	if s.Ledger != nil {
		run = s.Ledger.Begin(ctx, rundomain.StageTransform, d)
	}
	res.RunID = run.ID
	ctx = logger.WithRun(ctx, run.ID, rundomain.StageTransform)
	start := time.Now()
	log := logger.C(ctx)
	log.Info().Str("date", d).Msg("transform: started")

	defer func() {
		s.Metrics.RunFinished(rundomain.StageTransform, start, err)
		if s.Ledger != nil {
			s.Ledger.Finish(ctx, run, res.Counters(), err)
		}
		if err != nil {
			log.Error().Err(err).Str("kind", perr.Kind(err)).Msg("transform: failed")
			return
		}
		log.Info().Int("tables", len(res.Tables)).Dur("elapsed", time.Since(start)).Msg("transform: finished")
	}()

	work := func(ctx context.Context) error { return s.transform(ctx, d, &res) }
	if s.Guard != nil {
		err = s.Guard.Do(ctx, rundomain.LeaseName, work)
	} else {
		err = work(ctx)
	}
	return res, err
}

func (s *Service) transform(ctx context.Context, d string, res *domain.Result) error {
	playlists, tracks, err := s.read(ctx, d)
	if err != nil {
		return err
	}

	var registered []catalog.User
	if s.Users != nil {
		registered, err = s.Users.Users(ctx)
		if err != nil {
			return err
		}
		if registered == nil {
			registered = []catalog.User{}
		}
	}

	dims, err := star.BuildDimensions(playlists, tracks, registered, s.Keys)
	if err != nil {
		return err
	}

	for _, t := range dims.Tables() {
		if err := s.load(ctx, t, res); err != nil {
			return err
		}
	}

	// facts resolve against the same in-memory dimensions just loaded
	facts := star.AssembleFacts(playlists, tracks, dims)
	return s.load(ctx, star.FactTable(facts), res)
}

func (s *Service) read(ctx context.Context, date string) (catalog.PlaylistSnapshot, catalog.TrackSnapshot, error) {
	pb, err := s.Snapshots.Get(ctx, snapshot.Key(s.Cfg.Domain, catalog.KindPlaylists, date))
	if err != nil {
		return nil, nil, err
	}
	tb, err := s.Snapshots.Get(ctx, snapshot.Key(s.Cfg.Domain, catalog.KindTracks, date))
	if err != nil {
		return nil, nil, err
	}
	playlists, err := catalog.DecodePlaylists(pb)
	if err != nil {
		return nil, nil, perr.WithOp(err, "decode_playlists")
	}
	tracks, err := catalog.DecodeTracks(tb)
	if err != nil {
		return nil, nil, perr.WithOp(err, "decode_tracks")
	}
	return playlists, tracks, nil
}

func (s *Service) load(ctx context.Context, t star.Table, res *domain.Result) error {
	started := time.Now()
	err := s.Loader.ReplaceTable(ctx, t)
	s.Metrics.TableLoaded(t.Name, t.Len(), err)
	if err != nil {
		return err
	}
	res.Tables = append(res.Tables, domain.TableRows{Table: t.Name, Rows: t.Len()})
	logger.C(ctx).Debug().Str("table", t.Name).Int("rows", t.Len()).
		Dur("elapsed", time.Since(started)).Msg("transform: table replaced")
	return nil
}
