package reminders

import (
	"time"

	"github.com/kinectapp/kinect/internal/contacts"
)

const (
	// neverContactedDays stands in for the elapsed time of a contact with no
	// last-contact date and no creation date, so it surfaces as overdue
	// instead of failing the run.
	neverContactedDays = 365

	// upcomingWindowDays is how close to the threshold a contact must be to
	// count as "upcoming" in stats.
	upcomingWindowDays = 7
)

// Evaluate classifies one contact against its resolved threshold at the given
// time. Partial days count as full days elapsed, so a contact trips its
// threshold at the first moment past it rather than a day later. A contact is
// overdue only strictly past the threshold.
func Evaluate(contact contacts.Contact, now time.Time, threshold int) Evaluation {
	daysSince := daysSinceLastContact(contact, now)
	daysOverdue := daysSince - threshold
	return Evaluation{
		DaysSince:   daysSince,
		DaysOverdue: daysOverdue,
		IsOverdue:   daysOverdue > 0,
	}
}

func daysSinceLastContact(contact contacts.Contact, now time.Time) int {
	last := contact.LastContactDate
	if last.IsZero() {
		last = contact.CreatedAt
	}
	if last.IsZero() {
		return neverContactedDays
	}
	return ceilDays(now.Sub(last))
}

func ceilDays(d time.Duration) int {
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}
