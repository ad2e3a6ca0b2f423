package contacts

import (
	"strings"
	"time"
)

// Contact categories, used as a fallback source for reminder thresholds.
const (
	CategoryBestFriend   = "best_friend"
	CategoryFriend       = "friend"
	CategoryAcquaintance = "acquaintance"
)

type Contact struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ListID    string `json:"list_id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Category  string `json:"category"`
	// CustomReminderDays overrides any list or default threshold when set to a
	// positive value.
	CustomReminderDays *int `json:"custom_reminder_days,omitempty"`
	// LastContactDate is zero when the contact has never been reached out to.
	LastContactDate time.Time `json:"last_contact_date,omitzero"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DisplayName joins the first and last name.
func (c Contact) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

type Interaction struct {
	ID         string    `json:"id"`
	ContactID  string    `json:"contact_id"`
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateRequest struct {
	ListID             string `json:"list_id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Category           string `json:"category"`
	CustomReminderDays *int   `json:"custom_reminder_days"`
	LastContactDate    string `json:"last_contact_date"`
	Notes              string `json:"notes"`
}

type UpdateRequest struct {
	ListID             *string `json:"list_id"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	Category           *string `json:"category"`
	CustomReminderDays *int    `json:"custom_reminder_days"`
	// ClearCustomReminderDays removes the per-contact override.
	ClearCustomReminderDays bool    `json:"clear_custom_reminder_days"`
	Notes                   *string `json:"notes"`
}

type LogInteractionRequest struct {
	Kind       string `json:"kind"`
	Note       string `json:"note"`
	OccurredAt string `json:"occurred_at"`
}
