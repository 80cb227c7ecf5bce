// Package domain holds the trigger API request types and port
package domain

import (
	"context"

	edomain "factsongs/internal/services/extract/domain"
	tdomain "factsongs/internal/services/transform/domain"
)

// RunRequest is the optional body of both run endpoints
type RunRequest struct {
	Date string `json:"date" validate:"omitempty,isodate"`
}

// TriggerPort starts runs, at most one at a time per process
type TriggerPort interface {
	Extract(ctx context.Context, date string) (edomain.Result, error)
	Transform(ctx context.Context, date string) (tdomain.Result, error)
}
