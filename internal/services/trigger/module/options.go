package module

import "factsongs/internal/platform/config"

// Options holds configuration settings for the trigger module
type Options struct {
	// Token guards the run routes with a static bearer when set
	Token string
}

// FromConfig reads CORE_API_TRIGGER_TOKEN
func FromConfig(cfg config.Conf) Options {
	return Options{Token: cfg.Prefix("CORE_API_").MayString("TRIGGER_TOKEN", "")}
}
