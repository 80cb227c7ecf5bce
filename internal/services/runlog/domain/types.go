// Package domain holds the run ledger types and ports
package domain

import (
	"context"
	"time"
)

// Stage names
const (
	StageExtract   = "extract"
	StageTransform = "transform"
)

// Status of a ledger row
type Status string

// Statuses
const (
	StatusRunning Status = "running"
	StatusOK      Status = "ok"
	StatusError   Status = "error"
)

// Run is one extract or transform execution
type Run struct {
	ID           string         `json:"run_id"`
	Stage        string         `json:"stage"`
	SnapshotDate string         `json:"snapshot_date"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
	Status       Status         `json:"status"`
	Error        string         `json:"error,omitempty"`
	Counters     map[string]int `json:"counters,omitempty"`
}

// LeaseName is the single lease extract and transform runs share
const LeaseName = "pipeline"

// GuardPort runs fn while holding the named lease
type GuardPort interface {
	Do(ctx context.Context, name string, fn func(context.Context) error) error
}

// StorageRepo persists ledger rows
type StorageRepo interface {
	EnsureSchema(ctx context.Context) error
	Start(ctx context.Context, r Run) error
	Finish(ctx context.Context, r Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
}

// LedgerPort is what the run services and the trigger API call
type LedgerPort interface {
	Begin(ctx context.Context, stage, date string) Run
	Finish(ctx context.Context, r Run, counters map[string]int, err error) Run
	Recent(ctx context.Context, limit int) ([]Run, error)
}
