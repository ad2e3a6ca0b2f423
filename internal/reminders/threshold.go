package reminders

import (
	"github.com/kinectapp/kinect/internal/contacts"
	"github.com/kinectapp/kinect/internal/lists"
)

// fallbackDefaultDays guards against a misconfigured resolver; the resolved
// threshold must never be zero or negative.
const fallbackDefaultDays = 90

// ThresholdResolver resolves the reminder threshold for a contact using the
// priority chain: per-contact custom value, list value, default source.
//
// When CategoryDefaults is non-nil it is consulted as the default source
// (keyed by contact category) before DefaultDays.
type ThresholdResolver struct {
	DefaultDays      int
	CategoryDefaults map[string]int
}

// Resolve returns the applicable days-before-reminder threshold. Non-positive
// custom or list values are treated as absent and fall through; the result is
// always positive.
func (r ThresholdResolver) Resolve(contact contacts.Contact, list *lists.List) int {
	if d := contact.CustomReminderDays; d != nil && *d > 0 && *d <= 365 {
		return *d
	}
	if list != nil && list.ReminderDays != nil && *list.ReminderDays > 0 {
		return *list.ReminderDays
	}
	if r.CategoryDefaults != nil {
		if d, ok := r.CategoryDefaults[contact.Category]; ok && d > 0 {
			return d
		}
	}
	if r.DefaultDays > 0 {
		return r.DefaultDays
	}
	return fallbackDefaultDays
}
