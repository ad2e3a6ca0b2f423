package mail

import (
	"strings"
	"testing"

	"github.com/kinectapp/kinect/internal/reminders"
	"github.com/kinectapp/kinect/internal/users"
)

func TestRenderReminder(t *testing.T) {
	user := users.User{Username: "jdoe", DisplayName: "Jane"}
	overdue := []reminders.OverdueContact{
		{Name: "Ben King", DaysSince: 130, DaysOverdue: 40, Email: "ben@example.com"},
		{Name: "Ana Lee", DaysSince: 100, DaysOverdue: 10, Phone: "+15551234567"},
	}

	subject, body := renderReminder(user, overdue)

	if subject != "Kinect: 2 contacts overdue for a catch-up" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.HasPrefix(body, "Hi Jane,") {
		t.Errorf("body greeting = %q", strings.SplitN(body, "\n", 2)[0])
	}
	if !strings.Contains(body, "Ben King: last contact 130 days ago (40 days overdue)") {
		t.Errorf("body missing Ben line:\n%s", body)
	}
	if !strings.Contains(body, "email: ben@example.com") {
		t.Errorf("body missing email line:\n%s", body)
	}
	if !strings.Contains(body, "phone: +15551234567") {
		t.Errorf("body missing phone line:\n%s", body)
	}
	// most-overdue-first order preserved
	if strings.Index(body, "Ben King") > strings.Index(body, "Ana Lee") {
		t.Error("contacts out of order in body")
	}
}

func TestRenderReminderSingularAndFallbackName(t *testing.T) {
	user := users.User{Username: "jdoe"}
	subject, body := renderReminder(user, []reminders.OverdueContact{
		{Name: "Ana Lee", DaysSince: 91, DaysOverdue: 1},
	})
	if subject != "Kinect: 1 contact overdue for a catch-up" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.HasPrefix(body, "Hi jdoe,") {
		t.Errorf("body should greet by username, got %q", strings.SplitN(body, "\n", 2)[0])
	}
}
