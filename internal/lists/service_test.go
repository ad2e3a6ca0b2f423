package lists

import "testing"

func TestValidateReminderDays(t *testing.T) {
	valid := []int{1, 30, 365}
	for _, v := range valid {
		v := v
		if err := validateReminderDays(&v); err != nil {
			t.Errorf("validateReminderDays(%d) = %v, want nil", v, err)
		}
	}
	invalid := []int{0, -7, 366}
	for _, v := range invalid {
		v := v
		if err := validateReminderDays(&v); err == nil {
			t.Errorf("validateReminderDays(%d) = nil, want error", v)
		}
	}
	if err := validateReminderDays(nil); err != nil {
		t.Errorf("validateReminderDays(nil) = %v, want nil", err)
	}
}
