package reminders

import (
	"context"
	"time"

	"github.com/kinectapp/kinect/internal/contacts"
	"github.com/kinectapp/kinect/internal/lists"
	"github.com/kinectapp/kinect/internal/users"
)

// OverdueContact is the per-evaluation view of a contact whose reminder
// threshold has passed. It is never persisted.
type OverdueContact struct {
	Name        string `json:"name"`
	DaysSince   int    `json:"days_since"`
	DaysOverdue int    `json:"days_overdue"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Evaluation is the result of comparing one contact against its threshold.
type Evaluation struct {
	DaysSince   int
	DaysOverdue int
	IsOverdue   bool
}

// BatchResult summarizes one dispatch run.
type BatchResult struct {
	ProcessedUsers int  `json:"processed_users"`
	SentEmails     int  `json:"sent_emails"`
	Skipped        bool `json:"skipped"`
}

// Stats reports a user's overdue and soon-to-be-overdue contact counts.
type Stats struct {
	OverdueCount  int `json:"overdue_count"`
	UpcomingCount int `json:"upcoming_count"`
}

// ContactSource lists a user's contacts in stable fetch order.
type ContactSource interface {
	ListByUser(ctx context.Context, userID string) ([]contacts.Contact, error)
}

// ListSource lists a user's contact lists.
type ListSource interface {
	ListByUser(ctx context.Context, userID string) ([]lists.List, error)
}

// UserSource resolves users and lists those opted into reminders for a
// cadence ("" for all).
type UserSource interface {
	Get(ctx context.Context, userID string) (users.User, error)
	ListForReminders(ctx context.Context, cadence string) ([]users.User, error)
}

// Mailer delivers one reminder email to a user.
type Mailer interface {
	SendReminder(ctx context.Context, user users.User, overdue []OverdueContact) error
}

// Clock abstracts time for deterministic evaluation in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
