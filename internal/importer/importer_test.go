package importer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/kinectapp/kinect/internal/contacts"
)

type fakeCreator struct {
	created []contacts.CreateRequest
	failFor map[string]error
}

func (f *fakeCreator) Create(_ context.Context, _ string, req contacts.CreateRequest) (contacts.Contact, error) {
	if err := f.failFor[req.FirstName]; err != nil {
		return contacts.Contact{}, err
	}
	f.created = append(f.created, req)
	return contacts.Contact{FirstName: req.FirstName}, nil
}

const sampleVCF = `BEGIN:VCARD
VERSION:4.0
FN:Jane Doe
N:Doe;Jane;;;
EMAIL:jane@example.com
TEL:(555) 123-4567
NOTE:Met at the conference
END:VCARD
BEGIN:VCARD
VERSION:4.0
FN:Cher
END:VCARD
`

func TestParseVCF(t *testing.T) {
	parsed, err := ParseVCF(strings.NewReader(sampleVCF))
	if err != nil {
		t.Fatalf("ParseVCF returned error: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("got %d contacts, want 2", len(parsed))
	}
	jane := parsed[0]
	if jane.FirstName != "Jane" || jane.LastName != "Doe" {
		t.Errorf("name = %q %q, want Jane Doe", jane.FirstName, jane.LastName)
	}
	if jane.Email != "jane@example.com" {
		t.Errorf("email = %q", jane.Email)
	}
	if jane.Phone != "+15551234567" {
		t.Errorf("phone = %q, want +15551234567", jane.Phone)
	}
	if jane.Notes != "Met at the conference" {
		t.Errorf("notes = %q", jane.Notes)
	}
	// FN without N falls back to formatted-name splitting
	if parsed[1].FirstName != "Cher" || parsed[1].LastName != "" {
		t.Errorf("mononym = %q %q, want Cher with empty last name", parsed[1].FirstName, parsed[1].LastName)
	}
}

func TestParseCSVVariants(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantFormat Format
		wantFirst  ParsedContact
	}{
		{
			name: "google",
			content: "Name,Given Name,Family Name,E-mail 1 - Value,Phone 1 - Value,Notes\n" +
				"Jane Doe,Jane,Doe,jane@example.com,555-123-4567,old friend\n",
			wantFormat: FormatGoogleCSV,
			wantFirst: ParsedContact{
				FirstName: "Jane", LastName: "Doe",
				Email: "jane@example.com", Phone: "+15551234567", Notes: "old friend",
			},
		},
		{
			name: "outlook",
			content: "First Name,Last Name,E-mail Address,Mobile Phone\n" +
				"John,Smith,john@example.com,+44 20 7946 0958\n",
			wantFormat: FormatOutlookCSV,
			wantFirst: ParsedContact{
				FirstName: "John", LastName: "Smith",
				Email: "john@example.com", Phone: "+442079460958",
			},
		},
		{
			name: "android",
			content: "Display Name,Phone,Email\n" +
				"Mary Jane Watson,5551234567,mj@example.com\n",
			wantFormat: FormatAndroidCSV,
			wantFirst: ParsedContact{
				FirstName: "Mary Jane", LastName: "Watson",
				Email: "mj@example.com", Phone: "+15551234567",
			},
		},
		{
			name: "generic",
			content: "name,email,phone\n" +
				"Bob Jones,bob@example.com,555.123.4567\n",
			wantFormat: FormatGenericCSV,
			wantFirst: ParsedContact{
				FirstName: "Bob", LastName: "Jones",
				Email: "bob@example.com", Phone: "+15551234567",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, format, err := ParseCSV(strings.NewReader(tt.content))
			if err != nil {
				t.Fatalf("ParseCSV returned error: %v", err)
			}
			if format != tt.wantFormat {
				t.Errorf("format = %s, want %s", format, tt.wantFormat)
			}
			if len(parsed) != 1 {
				t.Fatalf("got %d contacts, want 1", len(parsed))
			}
			if parsed[0] != tt.wantFirst {
				t.Errorf("contact = %+v, want %+v", parsed[0], tt.wantFirst)
			}
		})
	}
}

func TestParseCSVEmptyFile(t *testing.T) {
	if _, _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestImportSkipsBadRows(t *testing.T) {
	content := "name,email\n" +
		"Good One,good@example.com\n" +
		",nameless@example.com\n" +
		"Fail Me,fail@example.com\n"
	creator := &fakeCreator{failFor: map[string]error{"Fail": errors.New("db down")}}
	svc := NewService(slog.Default(), creator)

	result, err := svc.Import(context.Background(), "u1", "contacts.csv", strings.NewReader(content))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Format != FormatGenericCSV {
		t.Errorf("format = %s, want generic_csv", result.Format)
	}
	if result.Imported != 1 || result.Skipped != 2 {
		t.Errorf("result = %+v, want 1 imported and 2 skipped", result)
	}
	if len(creator.created) != 1 || creator.created[0].FirstName != "Good" {
		t.Errorf("created = %+v", creator.created)
	}
}

func TestImportRoutesVCFByExtension(t *testing.T) {
	creator := &fakeCreator{}
	svc := NewService(slog.Default(), creator)

	result, err := svc.Import(context.Background(), "u1", "export.VCF", strings.NewReader(sampleVCF))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Format != FormatVCard {
		t.Errorf("format = %s, want vcard", result.Format)
	}
	if result.Imported != 2 {
		t.Errorf("imported = %d, want 2", result.Imported)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"(555) 123-4567", "+15551234567"},
		{"1-555-123-4567", "+15551234567"},
		{"+44 20 7946 0958", "+442079460958"},
		{"12345", "12345"},
	}
	for _, tt := range tests {
		if got := normalizePhone(tt.in); got != tt.want {
			t.Errorf("normalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Mary Jane Watson", "Mary Jane", "Watson"},
		{"Cher", "Cher", ""},
		{"  ", "", ""},
	}
	for _, tt := range tests {
		first, last := splitName(tt.in)
		if first != tt.first || last != tt.last {
			t.Errorf("splitName(%q) = %q %q, want %q %q", tt.in, first, last, tt.first, tt.last)
		}
	}
}
