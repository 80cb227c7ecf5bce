package guardrails

import (
	"context"
	"time"
)

// WithBudget bounds parent by d without extending an earlier parent deadline
// a zero d returns a cancelable child that only inherits the parent deadline
func WithBudget(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if dl, ok := parent.Deadline(); ok && time.Until(dl) <= d {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}
