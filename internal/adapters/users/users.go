// Package users reads the registry of people whose Spotify accounts are extracted
package users

import (
	"context"
	"strings"

	"factsongs/internal/core/catalog"
	"factsongs/internal/platform/config"
	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/store"

	"github.com/jackc/pgx/v5"
)

// Registry lists registered users with their linked Spotify account
type Registry interface {
	Users(ctx context.Context) ([]catalog.User, error)
}

// Sources
const (
	SourcePostgres = "postgres"
	SourceStatic   = "static"
	SourceNone     = "none"
)

// Config selects the registry source
type Config struct {
	Source string
	Table  string
	Static string
}

// New returns nil, nil for SourceNone
func New(cfg Config, st *store.Store) (Registry, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
	case SourceNone:
		return nil, nil
	case SourceStatic:
		return ParseStatic(cfg.Static)
	case "", SourcePostgres:
		if st == nil || st.PG == nil {
			return nil, perr.InvalidArgf("users: postgres registry needs SERVICE_PGSQL_DBURL")
		}
		return NewPostgres(st.PG, cfg.Table), nil
	}
	return nil, perr.InvalidArgf("users: unknown source %q", cfg.Source)
}

// Postgres reads the operational users table
type Postgres struct {
	db    store.RowQuerier
	table pgx.Identifier
}

// NewPostgres reads from table, a possibly schema-qualified name
func NewPostgres(db store.RowQuerier, table string) *Postgres {
	if table == "" {
		table = "oltp_system.users"
	}
	return &Postgres{db: db, table: pgx.Identifier(strings.Split(table, "."))}
}

// Users returns every user with a linked Spotify account, ordered by user id
func (p *Postgres) Users(ctx context.Context) ([]catalog.User, error) {
	sql := `SELECT user_id::text AS user_id, spotify_id, name FROM ` + p.table.Sanitize() +
		` WHERE spotify_id IS NOT NULL AND spotify_id <> '' ORDER BY user_id`
	out, err := store.StructsByName[catalog.User](ctx, p.db, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "users: list registry")
	}
	return out, nil
}

// Static is a fixed registry, typically from CORE_USERS_STATIC
type Static []catalog.User

// Users returns a copy of the list
func (s Static) Users(context.Context) ([]catalog.User, error) {
	out := make([]catalog.User, len(s))
	copy(out, s)
	return out, nil
}

// ParseStatic reads "Name:spotify_id[:user_id],..."; user_id defaults to the spotify id
func ParseStatic(list string) (Static, error) {
	out := Static{}
	for entry := range strings.SplitSeq(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 || strings.TrimSpace(parts[1]) == "" {
			return nil, perr.InvalidArgf("users: bad static entry %q, want Name:spotify_id[:user_id]", entry)
		}
		u := catalog.User{SpotifyID: strings.TrimSpace(parts[1])}
		u.UserID = u.SpotifyID
		if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
			u.UserID = strings.TrimSpace(parts[2])
		}
		if name := strings.TrimSpace(parts[0]); name != "" {
			u.Name = &name
		}
		out = append(out, u)
	}
	return out, nil
}

// FromConfig reads CORE_USERS_* keys
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("CORE_USERS_")
	return Config{
		Source: c.MayEnum("SOURCE", SourcePostgres, SourcePostgres, SourceStatic, SourceNone),
		Table:  c.MayString("TABLE", "oltp_system.users"),
		Static: c.MayString("STATIC", ""),
	}
}
