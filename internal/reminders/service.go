// Package reminders computes which contacts are overdue and dispatches
// reminder emails in batch runs.
package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/kinectapp/kinect/internal/lists"
	"github.com/kinectapp/kinect/internal/users"
)

// testReminderMax caps the contacts included in a manually triggered reminder.
const testReminderMax = 3

// Options tunes batch dispatch behavior.
type Options struct {
	// MaxContactsPerEmail truncates each reminder email.
	MaxContactsPerEmail int
	// DispatchDelay spaces consecutive reminder emails within a batch. It
	// throttles outbound rate and is not a correctness requirement.
	DispatchDelay time.Duration
	// SendTimeout bounds each mail transport call.
	SendTimeout time.Duration
}

type Service struct {
	contacts ContactSource
	lists    ListSource
	users    UserSource
	mailer   Mailer
	resolver ThresholdResolver
	clock    Clock
	opts     Options
	logger   *slog.Logger

	// running is the single-flight guard: at most one batch at a time,
	// concurrent invocations are no-ops.
	running atomic.Bool
}

func NewService(log *slog.Logger, contactSource ContactSource, listSource ListSource, userSource UserSource, mailer Mailer, resolver ThresholdResolver, clock Clock, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	if clock == nil {
		clock = SystemClock()
	}
	if opts.MaxContactsPerEmail <= 0 {
		opts.MaxContactsPerEmail = 5
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 30 * time.Second
	}
	return &Service{
		contacts: contactSource,
		lists:    listSource,
		users:    userSource,
		mailer:   mailer,
		resolver: resolver,
		clock:    clock,
		opts:     opts,
		logger:   log.With(slog.String("service", "reminders")),
	}
}

// AggregateOverdue evaluates every contact of the user and returns the overdue
// ones sorted most-overdue-first. Ties keep fetch order. An empty result is
// not an error.
func (s *Service) AggregateOverdue(ctx context.Context, userID string) ([]OverdueContact, error) {
	if s.contacts == nil || s.lists == nil {
		return nil, fmt.Errorf("reminder sources not configured")
	}
	contactList, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch contacts: %w", err)
	}
	userLists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch lists: %w", err)
	}
	byID := make(map[string]lists.List, len(userLists))
	for _, l := range userLists {
		byID[l.ID] = l
	}

	now := s.clock.Now()
	overdue := []OverdueContact{}
	for _, contact := range contactList {
		var list *lists.List
		if l, ok := byID[contact.ListID]; ok {
			list = &l
		}
		threshold := s.resolver.Resolve(contact, list)
		eval := Evaluate(contact, now, threshold)
		if !eval.IsOverdue {
			continue
		}
		overdue = append(overdue, OverdueContact{
			Name:        contact.DisplayName(),
			DaysSince:   eval.DaysSince,
			DaysOverdue: eval.DaysOverdue,
			Email:       contact.Email,
			Phone:       contact.Phone,
		})
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].DaysOverdue > overdue[j].DaysOverdue
	})
	return overdue, nil
}

// RunBatch evaluates every opted-in user for the cadence ("" for all) and
// sends at most one reminder email per user. A second concurrent invocation
// is a logged no-op returning zero counts. Per-user failures are logged and
// skipped; one bad record never stops the run. Cancelling ctx stops the run
// between users.
func (s *Service) RunBatch(ctx context.Context, cadence string) (BatchResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Info("batch already running, skipping", slog.String("cadence", cadence))
		return BatchResult{Skipped: true}, nil
	}
	defer s.running.Store(false)

	if s.users == nil || s.mailer == nil {
		return BatchResult{}, fmt.Errorf("reminder dispatch not configured")
	}

	start := s.clock.Now()
	allUsers, err := s.users.ListForReminders(ctx, cadence)
	if err != nil {
		return BatchResult{}, fmt.Errorf("fetch users: %w", err)
	}

	var limiter *rate.Limiter
	if s.opts.DispatchDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(s.opts.DispatchDelay), 1)
	}

	result := BatchResult{}
	for _, user := range allUsers {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("batch cancelled",
				slog.Int("processed_users", result.ProcessedUsers), slog.Any("error", err))
			return result, err
		}

		overdue, err := s.AggregateOverdue(ctx, user.ID)
		if err != nil {
			s.logger.Error("aggregate failed, skipping user",
				slog.String("user_id", user.ID), slog.Any("error", err))
			continue
		}
		if len(overdue) == 0 {
			continue
		}
		if len(overdue) > s.opts.MaxContactsPerEmail {
			overdue = overdue[:s.opts.MaxContactsPerEmail]
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		}
		if err := s.send(ctx, user, overdue); err != nil {
			s.logger.Error("reminder send failed, skipping user",
				slog.String("user_id", user.ID), slog.Any("error", err))
			continue
		}
		result.ProcessedUsers++
		result.SentEmails++
	}

	s.logger.Info("batch complete",
		slog.String("cadence", cadence),
		slog.Int("processed_users", result.ProcessedUsers),
		slog.Int("sent_emails", result.SentEmails),
		slog.Duration("elapsed", s.clock.Now().Sub(start)),
	)
	return result, nil
}

// SendTestReminder aggregates one user and dispatches immediately with the
// top results, bypassing the batch guard and inter-user delay. Failures
// propagate to the caller.
func (s *Service) SendTestReminder(ctx context.Context, userID string) error {
	if s.users == nil || s.mailer == nil {
		return fmt.Errorf("reminder dispatch not configured")
	}
	overdue, err := s.AggregateOverdue(ctx, userID)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return fmt.Errorf("no overdue contacts")
	}
	if len(overdue) > testReminderMax {
		overdue = overdue[:testReminderMax]
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	return s.send(ctx, user, overdue)
}

// GetReminderStats counts the user's overdue contacts and those within the
// upcoming window of their threshold. Read-only.
func (s *Service) GetReminderStats(ctx context.Context, userID string) (Stats, error) {
	if s.contacts == nil || s.lists == nil {
		return Stats{}, fmt.Errorf("reminder sources not configured")
	}
	contactList, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("fetch contacts: %w", err)
	}
	userLists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("fetch lists: %w", err)
	}
	byID := make(map[string]lists.List, len(userLists))
	for _, l := range userLists {
		byID[l.ID] = l
	}

	now := s.clock.Now()
	stats := Stats{}
	for _, contact := range contactList {
		var list *lists.List
		if l, ok := byID[contact.ListID]; ok {
			list = &l
		}
		eval := Evaluate(contact, now, s.resolver.Resolve(contact, list))
		switch {
		case eval.IsOverdue:
			stats.OverdueCount++
		case eval.DaysOverdue > -upcomingWindowDays:
			stats.UpcomingCount++
		}
	}
	return stats, nil
}

func (s *Service) send(ctx context.Context, user users.User, overdue []OverdueContact) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()
	return s.mailer.SendReminder(sendCtx, user, overdue)
}
