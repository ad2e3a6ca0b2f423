package reminders

import (
	"testing"

	"github.com/kinectapp/kinect/internal/contacts"
	"github.com/kinectapp/kinect/internal/lists"
)

func intPtr(v int) *int { return &v }

func TestThresholdResolver(t *testing.T) {
	tests := []struct {
		name     string
		resolver ThresholdResolver
		contact  contacts.Contact
		list     *lists.List
		want     int
	}{
		{
			name:     "custom days win over list and default",
			resolver: ThresholdResolver{DefaultDays: 90},
			contact:  contacts.Contact{CustomReminderDays: intPtr(30)},
			list:     &lists.List{ReminderDays: intPtr(14)},
			want:     30,
		},
		{
			name:     "list days when no custom",
			resolver: ThresholdResolver{DefaultDays: 90},
			contact:  contacts.Contact{},
			list:     &lists.List{ReminderDays: intPtr(14)},
			want:     14,
		},
		{
			name:     "default when no custom and no list",
			resolver: ThresholdResolver{DefaultDays: 90},
			contact:  contacts.Contact{},
			want:     90,
		},
		{
			name:     "list without reminder days falls through",
			resolver: ThresholdResolver{DefaultDays: 90},
			contact:  contacts.Contact{},
			list:     &lists.List{},
			want:     90,
		},
		{
			name:     "zero custom days treated as absent",
			resolver: ThresholdResolver{DefaultDays: 90},
			contact:  contacts.Contact{CustomReminderDays: intPtr(0)},
			want:     90,
		},
		{
			name:     "negative list days treated as absent",
			resolver: ThresholdResolver{DefaultDays: 90},
			contact:  contacts.Contact{},
			list:     &lists.List{ReminderDays: intPtr(-5)},
			want:     90,
		},
		{
			name:     "custom days above range treated as absent",
			resolver: ThresholdResolver{DefaultDays: 90},
			contact:  contacts.Contact{CustomReminderDays: intPtr(400)},
			want:     90,
		},
		{
			name: "category default when enabled",
			resolver: ThresholdResolver{
				DefaultDays: 90,
				CategoryDefaults: map[string]int{
					contacts.CategoryBestFriend:   30,
					contacts.CategoryFriend:       90,
					contacts.CategoryAcquaintance: 180,
				},
			},
			contact: contacts.Contact{Category: contacts.CategoryAcquaintance},
			want:    180,
		},
		{
			name: "unknown category falls through to default",
			resolver: ThresholdResolver{
				DefaultDays:      90,
				CategoryDefaults: map[string]int{contacts.CategoryFriend: 60},
			},
			contact: contacts.Contact{Category: "colleague"},
			want:    90,
		},
		{
			name:     "fallback when nothing configured",
			resolver: ThresholdResolver{},
			contact:  contacts.Contact{},
			want:     90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.resolver.Resolve(tt.contact, tt.list)
			if got != tt.want {
				t.Errorf("Resolve() = %d, want %d", got, tt.want)
			}
			if got <= 0 {
				t.Errorf("Resolve() returned non-positive threshold %d", got)
			}
		})
	}
}
