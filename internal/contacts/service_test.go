package contacts

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"best friend", "best_friend", CategoryBestFriend, false},
		{"mixed case with spaces", "  Friend ", CategoryFriend, false},
		{"acquaintance", "acquaintance", CategoryAcquaintance, false},
		{"empty defaults to friend", "", CategoryFriend, false},
		{"unknown", "colleague", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeCategory(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeCategory(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("normalizeCategory(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeKind(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"call", "call"},
		{" Email ", "email"},
		{"MEETUP", "meetup"},
		{"carrier pigeon", "other"},
		{"", "other"},
	}
	for _, tt := range tests {
		if got := normalizeKind(tt.raw); got != tt.want {
			t.Errorf("normalizeKind(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestValidateCustomDays(t *testing.T) {
	valid := []int{1, 90, 365}
	for _, v := range valid {
		v := v
		if err := validateCustomDays(&v); err != nil {
			t.Errorf("validateCustomDays(%d) = %v, want nil", v, err)
		}
	}
	invalid := []int{0, -1, 366}
	for _, v := range invalid {
		v := v
		if err := validateCustomDays(&v); err == nil {
			t.Errorf("validateCustomDays(%d) = nil, want error", v)
		}
	}
	if err := validateCustomDays(nil); err != nil {
		t.Errorf("validateCustomDays(nil) = %v, want nil", err)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		contact Contact
		want    string
	}{
		{Contact{FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{Contact{FirstName: "Cher"}, "Cher"},
		{Contact{FirstName: " Jane ", LastName: "  "}, "Jane"},
		{Contact{}, ""},
	}
	for _, tt := range tests {
		if got := tt.contact.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}
