package mail

import (
	"fmt"
	"strings"

	"github.com/kinectapp/kinect/internal/reminders"
	"github.com/kinectapp/kinect/internal/users"
)

// renderReminder builds the subject and plain-text body for a reminder email.
func renderReminder(user users.User, overdue []reminders.OverdueContact) (subject, body string) {
	noun := "contacts"
	if len(overdue) == 1 {
		noun = "contact"
	}
	subject = fmt.Sprintf("Kinect: %d %s overdue for a catch-up", len(overdue), noun)

	name := strings.TrimSpace(user.DisplayName)
	if name == "" {
		name = user.Username
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "It's been a while since you reached out to these people:\n\n")
	for _, c := range overdue {
		fmt.Fprintf(&b, "  - %s: last contact %d days ago (%d days overdue)\n", c.Name, c.DaysSince, c.DaysOverdue)
		if c.Email != "" {
			fmt.Fprintf(&b, "      email: %s\n", c.Email)
		}
		if c.Phone != "" {
			fmt.Fprintf(&b, "      phone: %s\n", c.Phone)
		}
	}
	fmt.Fprintf(&b, "\nA quick message goes a long way.\n")
	return subject, b.String()
}
