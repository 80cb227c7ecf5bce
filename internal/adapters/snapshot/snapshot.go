// Package snapshot persists landed documents under {domain}/{kind}/{date}.json
// keys. Backends: local directory, S3 bucket, Mongo collection.
package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	perr "factsongs/internal/platform/errors"
)

// Document describes one stored snapshot
type Document struct {
	Key       string
	Size      int64
	UpdatedAt time.Time
}

// Store is the blob surface the extraction writes and the transformation reads
// Get on an absent key fails with ErrorCodeMissingSnapshot
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]Document, error)
}

// Key builds the object key for one snapshot; date is YYYY-MM-DD
func Key(domain, kind, date string) string {
	return fmt.Sprintf("%s/%s/%s.json", domain, kind, date)
}

// Prefix is the key prefix listing every snapshot of a kind
func Prefix(domain, kind string) string {
	return domain + "/" + kind + "/"
}

// Close releases backend resources when the store holds any
func Close(ctx context.Context, s Store) error {
	if c, ok := s.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}

func missing(key string) error {
	return perr.MissingSnapshotf("snapshot %s not found", key)
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return perr.InvalidArgf("snapshot: invalid key %q", key)
	}
	return nil
}
