// Package scheduler provides best-effort periodic wake-ups: scheduled drain
// attempts while a user is signed in, and a cache verification sweep that
// drops metadata whose blobs were evicted externally. Nothing here is a
// delivery guarantee; the connectivity bridge remains the primary trigger.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Drainer triggers a drain for every user with pending operations.
type Drainer interface {
	DrainPending(ctx context.Context)
}

// Sweeper re-checks blob presence for tracked downloads.
type Sweeper interface {
	VerifySweep() (int, error)
}

// WakeupScheduler manages the periodic drain and sweep jobs.
type WakeupScheduler struct {
	drainer       Drainer
	sweeper       Sweeper
	drainSchedule string
	sweepSchedule string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewWakeupScheduler creates a scheduler. Schedules use standard five-field
// cron expressions.
func NewWakeupScheduler(drainer Drainer, sweeper Sweeper, drainSchedule, sweepSchedule string) *WakeupScheduler {
	return &WakeupScheduler{
		drainer:       drainer,
		sweeper:       sweeper,
		drainSchedule: drainSchedule,
		sweepSchedule: sweepSchedule,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *WakeupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.drainer != nil && s.drainSchedule != "" {
		_, err := s.cron.AddFunc(s.drainSchedule, func() {
			s.drainer.DrainPending(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid drain schedule '%s': %w", s.drainSchedule, err)
		}
	}

	if s.sweeper != nil && s.sweepSchedule != "" {
		_, err := s.cron.AddFunc(s.sweepSchedule, func() {
			dropped, err := s.sweeper.VerifySweep()
			if err != nil {
				log.Printf("Cache verification sweep failed: %v", err)
				return
			}
			if dropped > 0 {
				log.Printf("Cache verification sweep dropped %d evicted entries", dropped)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid sweep schedule '%s': %w", s.sweepSchedule, err)
		}
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Wakeup scheduler started (drain: %s, sweep: %s)", s.drainSchedule, s.sweepSchedule)
	return nil
}

// Stop halts the scheduler, waiting for running jobs to finish.
func (s *WakeupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	log.Printf("Wakeup scheduler stopped")
}
