package users

import "testing"

func TestNormalizeCadence(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"daily", "daily", CadenceDaily, false},
		{"weekly mixed case", " Weekly ", CadenceWeekly, false},
		{"monthly", "monthly", CadenceMonthly, false},
		{"empty defaults to daily", "", CadenceDaily, false},
		{"unknown", "hourly", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeCadence(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeCadence(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("normalizeCadence(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
