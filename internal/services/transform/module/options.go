package module

import (
	"factsongs/internal/core/keys"
	"factsongs/internal/platform/config"
)

// Options holds configuration settings for the transform module
type Options struct {
	KeyKind string
	Domain  string
}

// FromConfig reads CORE_KEYS_KIND and CORE_SNAPSHOT_DOMAIN
func FromConfig(cfg config.Conf) Options {
	return Options{
		KeyKind: cfg.Prefix("CORE_KEYS_").MayEnum("KIND", keys.KindUUID, keys.KindUUID, keys.KindULID),
		Domain:  cfg.Prefix("CORE_SNAPSHOT_").MayString("DOMAIN", "spotify"),
	}
}
