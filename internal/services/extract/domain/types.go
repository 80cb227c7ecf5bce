// Package domain holds the extraction run result and port
package domain

import "context"

// Result summarises one extraction run
type Result struct {
	RunID     string   `json:"run_id"`
	Date      string   `json:"date"`
	Users     int      `json:"users"`
	Playlists int      `json:"playlists"`
	Tracks    int      `json:"tracks"`
	Keys      []string `json:"keys"`
}

// Counters flattens the result for the run ledger
func (r Result) Counters() map[string]int {
	return map[string]int{"users": r.Users, "playlists": r.Playlists, "tracks": r.Tracks}
}

// RunnerPort drains the catalogue for every registry user and lands both snapshots
// an empty date means today (UTC)
type RunnerPort interface {
	Run(ctx context.Context, date string) (Result, error)
}
