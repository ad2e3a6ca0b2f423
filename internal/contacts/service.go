// Package contacts manages contact records and their interaction history.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinectapp/kinect/internal/db"
)

var ErrContactNotFound = errors.New("contact not found")

const contactColumns = `id, user_id, list_id, first_name, last_name, email, phone,
	category, custom_reminder_days, last_contact_date, notes, created_at, updated_at`

type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewService(log *slog.Logger, pool *pgxpool.Pool) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pool:   pool,
		logger: log.With(slog.String("service", "contacts")),
	}
}

func (s *Service) Get(ctx context.Context, userID, contactID string) (Contact, error) {
	if s.pool == nil {
		return Contact{}, fmt.Errorf("contacts store not configured")
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return Contact{}, err
	}
	pgID, err := db.ParseUUID(contactID)
	if err != nil {
		return Contact{}, err
	}
	row := s.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND user_id = $2`, pgID, pgUserID)
	item, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contact{}, ErrContactNotFound
		}
		return Contact{}, err
	}
	return item, nil
}

// ListByUser returns all of the user's contacts in creation order.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Contact, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("contacts store not configured")
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `SELECT `+contactColumns+` FROM contacts WHERE user_id = $1 ORDER BY created_at`, pgUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

// Search matches against names, email, and phone; a blank query lists everything.
func (s *Service) Search(ctx context.Context, userID, query string) ([]Contact, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return s.ListByUser(ctx, userID)
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return nil, err
	}
	pattern := "%" + trimmed + "%"
	rows, err := s.pool.Query(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE user_id = $1 AND (
			first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2
		)
		ORDER BY created_at`,
		pgUserID, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Contact, error) {
	if s.pool == nil {
		return Contact{}, fmt.Errorf("contacts store not configured")
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return Contact{}, err
	}
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return Contact{}, fmt.Errorf("first name is required")
	}
	category, err := normalizeCategory(req.Category)
	if err != nil {
		return Contact{}, err
	}
	if err := validateCustomDays(req.CustomReminderDays); err != nil {
		return Contact{}, err
	}
	pgListID := pgtype.UUID{}
	if strings.TrimSpace(req.ListID) != "" {
		pgListID, err = db.ParseUUID(req.ListID)
		if err != nil {
			return Contact{}, err
		}
	}
	lastContact := pgtype.Timestamptz{}
	if strings.TrimSpace(req.LastContactDate) != "" {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(req.LastContactDate))
		if err != nil {
			return Contact{}, fmt.Errorf("invalid last_contact_date: %w", err)
		}
		lastContact = pgtype.Timestamptz{Time: parsed, Valid: true}
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO contacts (user_id, list_id, first_name, last_name, email, phone,
			category, custom_reminder_days, last_contact_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+contactColumns,
		pgUserID, pgListID, firstName, db.TextFromString(req.LastName),
		db.TextFromString(req.Email), db.TextFromString(req.Phone),
		category, db.Int4FromPtr(req.CustomReminderDays), lastContact,
		db.TextFromString(req.Notes))
	return scanContact(row)
}

func (s *Service) Update(ctx context.Context, userID, contactID string, req UpdateRequest) (Contact, error) {
	existing, err := s.Get(ctx, userID, contactID)
	if err != nil {
		return Contact{}, err
	}
	firstName := existing.FirstName
	if req.FirstName != nil {
		firstName = strings.TrimSpace(*req.FirstName)
		if firstName == "" {
			return Contact{}, fmt.Errorf("first name is required")
		}
	}
	lastName := existing.LastName
	if req.LastName != nil {
		lastName = strings.TrimSpace(*req.LastName)
	}
	email := existing.Email
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	phone := existing.Phone
	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
	}
	category := existing.Category
	if req.Category != nil {
		category, err = normalizeCategory(*req.Category)
		if err != nil {
			return Contact{}, err
		}
	}
	customDays := existing.CustomReminderDays
	if req.ClearCustomReminderDays {
		customDays = nil
	} else if req.CustomReminderDays != nil {
		if err := validateCustomDays(req.CustomReminderDays); err != nil {
			return Contact{}, err
		}
		customDays = req.CustomReminderDays
	}
	notes := existing.Notes
	if req.Notes != nil {
		notes = strings.TrimSpace(*req.Notes)
	}
	pgListID := pgtype.UUID{}
	listID := existing.ListID
	if req.ListID != nil {
		listID = strings.TrimSpace(*req.ListID)
	}
	if listID != "" {
		pgListID, err = db.ParseUUID(listID)
		if err != nil {
			return Contact{}, err
		}
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE contacts SET list_id = $2, first_name = $3, last_name = $4, email = $5,
			phone = $6, category = $7, custom_reminder_days = $8, notes = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+contactColumns,
		existing.ID, pgListID, firstName, db.TextFromString(lastName),
		db.TextFromString(email), db.TextFromString(phone), category,
		db.Int4FromPtr(customDays), db.TextFromString(notes))
	return scanContact(row)
}

func (s *Service) Delete(ctx context.Context, userID, contactID string) error {
	if _, err := s.Get(ctx, userID, contactID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, contactID)
	return err
}

// LogInteraction records the interaction and advances the contact's
// last_contact_date when the interaction is more recent.
func (s *Service) LogInteraction(ctx context.Context, userID, contactID string, req LogInteractionRequest) (Interaction, error) {
	contact, err := s.Get(ctx, userID, contactID)
	if err != nil {
		return Interaction{}, err
	}
	kind := normalizeKind(req.Kind)
	occurredAt := time.Now()
	if strings.TrimSpace(req.OccurredAt) != "" {
		occurredAt, err = time.Parse(time.RFC3339, strings.TrimSpace(req.OccurredAt))
		if err != nil {
			return Interaction{}, fmt.Errorf("invalid occurred_at: %w", err)
		}
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO interactions (contact_id, user_id, kind, note, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, contact_id, user_id, kind, note, occurred_at, created_at`,
		contact.ID, contact.UserID, kind, db.TextFromString(req.Note), occurredAt)
	item, err := scanInteraction(row)
	if err != nil {
		return Interaction{}, err
	}

	if occurredAt.After(contact.LastContactDate) {
		_, err := s.pool.Exec(ctx, `
			UPDATE contacts SET last_contact_date = $2, updated_at = now() WHERE id = $1`,
			contact.ID, occurredAt)
		if err != nil {
			s.logger.Warn("advance last contact date failed",
				slog.String("contact_id", contact.ID), slog.Any("error", err))
		}
	}
	return item, nil
}

// ListInteractions returns the contact's interaction log, most recent first.
func (s *Service) ListInteractions(ctx context.Context, userID, contactID string) ([]Interaction, error) {
	contact, err := s.Get(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, contact_id, user_id, kind, note, occurred_at, created_at
		FROM interactions WHERE contact_id = $1 ORDER BY occurred_at DESC`,
		contact.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Interaction{}
	for rows.Next() {
		item, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func normalizeCategory(raw string) (string, error) {
	category := strings.ToLower(strings.TrimSpace(raw))
	switch category {
	case CategoryBestFriend, CategoryFriend, CategoryAcquaintance:
		return category, nil
	case "":
		return CategoryFriend, nil
	default:
		return "", fmt.Errorf("invalid category: %s", raw)
	}
}

func normalizeKind(raw string) string {
	kind := strings.ToLower(strings.TrimSpace(raw))
	switch kind {
	case "call", "text", "email", "meetup", "other":
		return kind
	default:
		return "other"
	}
}

func validateCustomDays(days *int) error {
	if days == nil {
		return nil
	}
	if *days < 1 || *days > 365 {
		return fmt.Errorf("custom_reminder_days must be between 1 and 365")
	}
	return nil
}

func collectContacts(rows pgx.Rows) ([]Contact, error) {
	items := []Contact{}
	for rows.Next() {
		item, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanContact(row pgx.Row) (Contact, error) {
	var (
		id          pgtype.UUID
		userID      pgtype.UUID
		listID      pgtype.UUID
		lastName    pgtype.Text
		email       pgtype.Text
		phone       pgtype.Text
		customDays  pgtype.Int4
		lastContact pgtype.Timestamptz
		notes       pgtype.Text
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
		item        Contact
	)
	err := row.Scan(&id, &userID, &listID, &item.FirstName, &lastName, &email, &phone,
		&item.Category, &customDays, &lastContact, &notes, &createdAt, &updatedAt)
	if err != nil {
		return Contact{}, err
	}
	item.ID = db.UUIDToString(id)
	item.UserID = db.UUIDToString(userID)
	item.ListID = db.UUIDToString(listID)
	item.LastName = db.TextToString(lastName)
	item.Email = db.TextToString(email)
	item.Phone = db.TextToString(phone)
	if customDays.Valid {
		days := int(customDays.Int32)
		item.CustomReminderDays = &days
	}
	item.LastContactDate = db.TimeFromPg(lastContact)
	item.Notes = db.TextToString(notes)
	item.CreatedAt = db.TimeFromPg(createdAt)
	item.UpdatedAt = db.TimeFromPg(updatedAt)
	return item, nil
}

func scanInteraction(row pgx.Row) (Interaction, error) {
	var (
		id         pgtype.UUID
		contactID  pgtype.UUID
		userID     pgtype.UUID
		note       pgtype.Text
		occurredAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		item       Interaction
	)
	err := row.Scan(&id, &contactID, &userID, &item.Kind, &note, &occurredAt, &createdAt)
	if err != nil {
		return Interaction{}, err
	}
	item.ID = db.UUIDToString(id)
	item.ContactID = db.UUIDToString(contactID)
	item.UserID = db.UUIDToString(userID)
	item.Note = db.TextToString(note)
	item.OccurredAt = db.TimeFromPg(occurredAt)
	item.CreatedAt = db.TimeFromPg(createdAt)
	return item, nil
}
