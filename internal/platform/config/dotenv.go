package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv merges KEY=VALUE files into the process env before any Conf is read.
// Variables already set in the environment win. With no paths it tries ./.env
// Missing files are skipped; malformed files are returned as errors.
// It runs before the logger exists so it never logs
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}
