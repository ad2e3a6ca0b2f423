// Package scheduler fires reminder batch runs on the configured cadences.
// It owns the timers only; the reminder computation lives in the reminders
// package and is invoked through the Batcher interface.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/kinectapp/kinect/internal/config"
	"github.com/kinectapp/kinect/internal/reminders"
	"github.com/kinectapp/kinect/internal/users"
)

// Batcher runs one reminder dispatch pass for a cadence.
type Batcher interface {
	RunBatch(ctx context.Context, cadence string) (reminders.BatchResult, error)
}

type Scheduler struct {
	cron    *cron.Cron
	batcher Batcher
	logger  *slog.Logger
}

// New builds a scheduler with one cron entry per cadence pattern. Patterns are
// standard five-field cron expressions with descriptors allowed.
func New(log *slog.Logger, batcher Batcher, cfg config.RemindersConfig) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Scheduler{
		cron:    cron.New(),
		batcher: batcher,
		logger:  log.With(slog.String("service", "scheduler")),
	}
	entries := []struct {
		cadence string
		pattern string
	}{
		{users.CadenceDaily, cfg.DailySchedule},
		{users.CadenceWeekly, cfg.WeeklySchedule},
		{users.CadenceMonthly, cfg.MonthlySchedule},
	}
	for _, entry := range entries {
		cadence := entry.cadence
		if _, err := s.cron.AddFunc(entry.pattern, func() { s.fire(cadence) }); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", cadence, entry.pattern, err)
		}
	}
	return s, nil
}

// Start begins firing scheduled runs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("reminder schedules registered")
}

// Stop halts the timers and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) fire(cadence string) {
	result, err := s.batcher.RunBatch(context.Background(), cadence)
	if err != nil {
		s.logger.Error("scheduled batch failed", slog.String("cadence", cadence), slog.Any("error", err))
		return
	}
	if result.Skipped {
		return
	}
	s.logger.Info("scheduled batch finished",
		slog.String("cadence", cadence),
		slog.Int("processed_users", result.ProcessedUsers),
		slog.Int("sent_emails", result.SentEmails),
	)
}
