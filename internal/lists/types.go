package lists

import "time"

type List struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ReminderDays *int      `json:"reminder_days,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ReminderDays *int   `json:"reminder_days"`
}

type UpdateRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ReminderDays *int    `json:"reminder_days"`
	// ClearReminderDays removes the list-level threshold so contacts fall
	// through to the system default.
	ClearReminderDays bool `json:"clear_reminder_days"`
}
