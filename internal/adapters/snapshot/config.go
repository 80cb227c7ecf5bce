package snapshot

import (
	"context"
	"strings"

	"factsongs/internal/platform/config"
	perr "factsongs/internal/platform/errors"
)

// Backend names
const (
	BackendFS    = "fs"
	BackendS3    = "s3"
	BackendMongo = "mongo"
)

// Config selects and configures a backend
type Config struct {
	Backend string
	Dir     string
	S3      S3Config
	Mongo   MongoConfig
}

// S3Config configures the bucket backend
type S3Config struct {
	Bucket   string
	Region   string
	Prefix   string
	Endpoint string
}

// MongoConfig configures the collection backend
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Open builds the configured backend
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFS:
		return NewFS(cfg.Dir)
	case BackendS3:
		return NewS3(cfg.S3)
	case BackendMongo:
		return OpenMongo(ctx, cfg.Mongo)
	}
	return nil, perr.InvalidArgf("snapshot: unknown backend %q", cfg.Backend)
}

// FromConfig reads CORE_SNAPSHOT_* keys
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("CORE_SNAPSHOT_")
	return Config{
		Backend: c.MayEnum("BACKEND", BackendFS, BackendFS, BackendS3, BackendMongo),
		Dir:     c.MayString("DIR", "landing"),
		S3: S3Config{
			Bucket:   c.MayString("S3_BUCKET", ""),
			Region:   c.MayString("S3_REGION", "us-east-1"),
			Prefix:   c.MayString("S3_PREFIX", ""),
			Endpoint: c.MayString("S3_ENDPOINT", ""),
		},
		Mongo: MongoConfig{
			URI:        c.MayString("MONGO_URI", ""),
			Database:   c.MayString("MONGO_DATABASE", "factsongs"),
			Collection: c.MayString("MONGO_COLLECTION", "snapshots"),
		},
	}
}
