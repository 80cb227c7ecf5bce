package store

import (
	"factsongs/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithPG injects a ready TxRunner and skips opening postgres from config
func WithPG(tx TxRunner) Option {
	return func(s *Store) error {
		s.PG = tx
		return nil
	}
}

// WithCH injects a ready Clickhouse seam and skips opening clickhouse from config
func WithCH(c Clickhouse) Option {
	return func(s *Store) error {
		s.CH = c
		return nil
	}
}
