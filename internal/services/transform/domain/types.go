// Package domain holds the transformation run result and port
package domain

import "context"

// Result summarises one transformation run
type Result struct {
	RunID string `json:"run_id"`
	Date  string `json:"date"`

	// Rows per loaded table, in load order
	Tables []TableRows `json:"tables"`
}

// TableRows is the row count written to one table
type TableRows struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

// Counters flattens the result for the run ledger
func (r Result) Counters() map[string]int {
	out := make(map[string]int, len(r.Tables))
	for _, t := range r.Tables {
		out[t.Table] = t.Rows
	}
	return out
}

// RunnerPort reads one date's snapshots and replaces the star schema
// an empty date means today (UTC)
type RunnerPort interface {
	Run(ctx context.Context, date string) (Result, error)
}
