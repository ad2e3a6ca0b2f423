package users

import "time"

// Cadence values accepted for reminder dispatch preferences.
const (
	CadenceDaily   = "daily"
	CadenceWeekly  = "weekly"
	CadenceMonthly = "monthly"
)

type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email,omitempty"`
	DisplayName      string    `json:"display_name,omitempty"`
	IsActive         bool      `json:"is_active"`
	RemindersEnabled bool      `json:"reminders_enabled"`
	ReminderCadence  string    `json:"reminder_cadence"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	LastLoginAt      time.Time `json:"last_login_at,omitzero"`
}

type CreateRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
}

type UpdateRemindersRequest struct {
	Enabled *bool   `json:"enabled"`
	Cadence *string `json:"cadence"`
}
