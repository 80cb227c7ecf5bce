// Package service serialises extract and transform runs within one process
package service

import (
	"context"
	"sync"

	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/logger"
	edomain "factsongs/internal/services/extract/domain"
	tdomain "factsongs/internal/services/transform/domain"
	"factsongs/internal/services/trigger/domain"
)

// Service implements domain.TriggerPort; a run arriving while another is in
// flight is rejected with a conflict rather than queued
type Service struct {
	extract   edomain.RunnerPort
	transform tdomain.RunnerPort

	mu sync.Mutex
}

var _ domain.TriggerPort = (*Service)(nil)

// New constructs the trigger service
func New(extract edomain.RunnerPort, transform tdomain.RunnerPort) *Service {
	return &Service{extract: extract, transform: transform}
}

// Extract runs one extraction for date
func (s *Service) Extract(ctx context.Context, date string) (edomain.Result, error) {
	if s.extract == nil {
		return edomain.Result{}, perr.Unavailablef("extract is not configured")
	}
	if !s.mu.TryLock() {
		return edomain.Result{}, perr.Conflictf("a run is already in progress")
	}
	defer s.mu.Unlock()
	logger.C(ctx).Info().Str("date", date).Msg("trigger: extract")
	return s.extract.Run(ctx, date)
}

// Transform runs one transformation for date
func (s *Service) Transform(ctx context.Context, date string) (tdomain.Result, error) {
	if s.transform == nil {
		return tdomain.Result{}, perr.Unavailablef("transform is not configured")
	}
	if !s.mu.TryLock() {
		return tdomain.Result{}, perr.Conflictf("a run is already in progress")
	}
	defer s.mu.Unlock()
	logger.C(ctx).Info().Str("date", date).Msg("trigger: transform")
	return s.transform.Run(ctx, date)
}
