package module

import (
	"time"

	"factsongs/internal/platform/config"
)

// Options holds configuration settings for the extract module
type Options struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
	PageSize     int
	MaxPages     int

	// Domain is the snapshot key namespace
	Domain string
}

// FromConfig reads CORE_SPOTIFY_* and CORE_SNAPSHOT_DOMAIN
func FromConfig(cfg config.Conf) Options {
	sp := cfg.Prefix("CORE_SPOTIFY_")
	return Options{
		ClientID:     sp.MayString("CLIENT_ID", ""),
		ClientSecret: sp.MayString("CLIENT_SECRET", ""),
		BaseURL:      sp.MayString("BASE_URL", ""),
		TokenURL:     sp.MayString("TOKEN_URL", ""),
		Timeout:      sp.MayDuration("TIMEOUT", 10*time.Second),
		PageSize:     sp.MayInt("PAGE_SIZE", 100),
		MaxPages:     sp.MayInt("MAX_PAGES", 0),
		Domain:       cfg.Prefix("CORE_SNAPSHOT_").MayString("DOMAIN", "spotify"),
	}
}
