// Package scheduler runs the background report refresh and alert scan.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"pulse/internal/screener"
)

// refreshTimeout bounds a full refresh; individual fetches carry their own
// client timeouts, this caps the whole pass.
const refreshTimeout = 10 * time.Minute

// Scheduler manages the cron tasks.
type Scheduler struct {
	cron     *cron.Cron
	screener *screener.Service
	log      zerolog.Logger
	ctx      context.Context

	mu sync.Mutex // serializes refresh runs
}

// New creates a Scheduler.
func New(ctx context.Context, svc *screener.Service, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		screener: svc,
		log:      log.With().Str("component", "scheduler").Logger(),
		ctx:      ctx,
	}
}

// Register registers the report refresh task on the given cron spec.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the refresh task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, refreshTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.screener.Refresh(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("report refresh failed")
		return
	}
	s.log.Info().Int("reports", n).Dur("elapsed", time.Since(start)).Msg("report refreshed")

	s.scanAlerts()
}

// scanAlerts logs every symbol whose price has crossed a configured bound.
func (s *Scheduler) scanAlerts() {
	for _, r := range s.screener.Snapshot() {
		if !r.AlertTriggered {
			continue
		}
		s.log.Warn().
			Str("symbol", r.Symbol).
			Float64("price", r.Price).
			Interface("bounds", r.Alerts).
			Msg("price alert triggered")
	}
}
