// Package importer parses uploaded contact files (vCard, CSV) and creates
// contacts from them.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/kinectapp/kinect/internal/contacts"
)

// Format identifies the detected upload layout.
type Format string

const (
	FormatVCard      Format = "vcard"
	FormatGoogleCSV  Format = "google_csv"
	FormatOutlookCSV Format = "outlook_csv"
	FormatAndroidCSV Format = "android_csv"
	FormatGenericCSV Format = "generic_csv"
)

// ParsedContact is one contact extracted from an upload, before persistence.
type ParsedContact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Notes     string
}

// Result summarizes one import pass.
type Result struct {
	Format   Format `json:"format"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// ContactCreator persists parsed contacts.
type ContactCreator interface {
	Create(ctx context.Context, userID string, req contacts.CreateRequest) (contacts.Contact, error)
}

type Service struct {
	creator ContactCreator
	logger  *slog.Logger
}

func NewService(log *slog.Logger, creator ContactCreator) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		creator: creator,
		logger:  log.With(slog.String("service", "importer")),
	}
}

// Import parses the upload and creates a contact per parsed row. Rows without
// a name are skipped, and a row that fails to persist is logged and skipped
// rather than aborting the whole import.
func (s *Service) Import(ctx context.Context, userID, filename string, r io.Reader) (Result, error) {
	if s.creator == nil {
		return Result{}, fmt.Errorf("importer not configured")
	}

	var (
		parsed []ParsedContact
		format Format
		err    error
	)
	if strings.EqualFold(filepath.Ext(filename), ".vcf") {
		format = FormatVCard
		parsed, err = ParseVCF(r)
	} else {
		parsed, format, err = ParseCSV(r)
	}
	if err != nil {
		return Result{}, err
	}

	result := Result{Format: format}
	for _, row := range parsed {
		if strings.TrimSpace(row.FirstName) == "" {
			result.Skipped++
			continue
		}
		_, err := s.creator.Create(ctx, userID, contacts.CreateRequest{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
			Phone:     row.Phone,
			Notes:     row.Notes,
		})
		if err != nil {
			s.logger.Warn("import row failed",
				slog.String("name", strings.TrimSpace(row.FirstName+" "+row.LastName)),
				slog.Any("error", err))
			result.Skipped++
			continue
		}
		result.Imported++
	}
	s.logger.Info("import complete",
		slog.String("format", string(format)),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
	)
	return result, nil
}

// ParseVCF decodes a vCard stream into parsed contacts.
func ParseVCF(r io.Reader) ([]ParsedContact, error) {
	dec := vcard.NewDecoder(r)
	parsed := []ParsedContact{}
	for {
		card, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse vcard: %w", err)
		}

		contact := ParsedContact{
			Email: card.PreferredValue(vcard.FieldEmail),
			Phone: normalizePhone(card.PreferredValue(vcard.FieldTelephone)),
			Notes: card.Value(vcard.FieldNote),
		}
		if name := card.Name(); name != nil && strings.TrimSpace(name.GivenName) != "" {
			contact.FirstName = strings.TrimSpace(name.GivenName)
			contact.LastName = strings.TrimSpace(name.FamilyName)
		} else {
			contact.FirstName, contact.LastName = splitName(card.PreferredValue(vcard.FieldFormattedName))
		}
		parsed = append(parsed, contact)
	}
	return parsed, nil
}

// ParseCSV detects the CSV variant from its header row and decodes it.
func ParseCSV(r io.Reader) ([]ParsedContact, Format, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, FormatGenericCSV, fmt.Errorf("empty file")
		}
		return nil, FormatGenericCSV, fmt.Errorf("read csv header: %w", err)
	}
	format := detectCSVFormat(header)

	index := map[string]int{}
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	field := func(record []string, names ...string) string {
		for _, name := range names {
			if i, ok := index[name]; ok && i < len(record) {
				if v := strings.TrimSpace(record[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	parsed := []ParsedContact{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, format, fmt.Errorf("read csv row: %w", err)
		}

		var contact ParsedContact
		switch format {
		case FormatGoogleCSV:
			contact = ParsedContact{
				FirstName: field(record, "given name"),
				LastName:  field(record, "family name"),
				Email:     field(record, "e-mail 1 - value"),
				Phone:     normalizePhone(field(record, "phone 1 - value")),
				Notes:     field(record, "notes"),
			}
			if contact.FirstName == "" {
				contact.FirstName, contact.LastName = splitName(field(record, "name"))
			}
		case FormatOutlookCSV:
			contact = ParsedContact{
				FirstName: field(record, "first name"),
				LastName:  field(record, "last name"),
				Email:     field(record, "e-mail address"),
				Phone:     normalizePhone(field(record, "mobile phone", "home phone", "business phone")),
				Notes:     field(record, "notes"),
			}
			if contact.FirstName == "" {
				contact.FirstName, contact.LastName = splitName(field(record, "display name"))
			}
		case FormatAndroidCSV:
			first, last := splitName(field(record, "display name"))
			contact = ParsedContact{
				FirstName: first,
				LastName:  last,
				Email:     field(record, "email"),
				Phone:     normalizePhone(field(record, "phone")),
			}
		default:
			first, last := splitName(field(record, "name", "full name", "display name", "contact name"))
			if first == "" {
				first = field(record, "first name", "given name")
				last = field(record, "last name", "family name")
			}
			contact = ParsedContact{
				FirstName: first,
				LastName:  last,
				Email:     field(record, "email", "e-mail", "email address"),
				Phone:     normalizePhone(field(record, "phone", "mobile", "phone number", "mobile phone")),
				Notes:     field(record, "notes", "note"),
			}
		}
		parsed = append(parsed, contact)
	}
	return parsed, format, nil
}

func detectCSVFormat(header []string) Format {
	joined := strings.ToLower(strings.Join(header, ","))
	switch {
	case strings.Contains(joined, "given name") && strings.Contains(joined, "family name"):
		return FormatGoogleCSV
	case strings.Contains(joined, "first name") && strings.Contains(joined, "last name"):
		return FormatOutlookCSV
	case strings.Contains(joined, "display name") && strings.Contains(joined, "phone"):
		return FormatAndroidCSV
	default:
		return FormatGenericCSV
	}
}

func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	if i := strings.LastIndex(full, " "); i > 0 {
		return strings.TrimSpace(full[:i]), strings.TrimSpace(full[i+1:])
	}
	return full, ""
}

// normalizePhone strips formatting and prefixes a country code for bare
// 10/11-digit North American numbers.
func normalizePhone(phone string) string {
	if phone == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	if normalized == "" || strings.HasPrefix(normalized, "+") {
		return normalized
	}
	if len(normalized) == 11 && strings.HasPrefix(normalized, "1") {
		return "+" + normalized
	}
	if len(normalized) == 10 {
		return "+1" + normalized
	}
	return normalized
}
