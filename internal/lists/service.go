// Package lists manages contact lists and their list-level reminder thresholds.
package lists

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinectapp/kinect/internal/db"
)

var ErrListNotFound = errors.New("list not found")

const listColumns = `id, user_id, name, description, reminder_days, created_at, updated_at`

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
		logger: log.With(slog.String("service", "lists")),
	}
}

func (s *Service) Get(ctx context.Context, userID, listID string) (List, error) {
	if s.pool == nil {
		return List{}, fmt.Errorf("lists store not configured")
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return List{}, err
	}
	pgID, err := db.ParseUUID(listID)
	if err != nil {
		return List{}, err
	}
	row := s.pool.QueryRow(ctx, `SELECT `+listColumns+` FROM contact_lists WHERE id = $1 AND user_id = $2`, pgID, pgUserID)
	item, err := scanList(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return List{}, ErrListNotFound
		}
		return List{}, err
	}
	return item, nil
}

// ListByUser returns all of the user's lists in creation order.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]List, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("lists store not configured")
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `SELECT `+listColumns+` FROM contact_lists WHERE user_id = $1 ORDER BY created_at`, pgUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []List{}
	for rows.Next() {
		item, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (List, error) {
	if s.pool == nil {
		return List{}, fmt.Errorf("lists store not configured")
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return List{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return List{}, fmt.Errorf("list name is required")
	}
	if err := validateReminderDays(req.ReminderDays); err != nil {
		return List{}, err
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO contact_lists (user_id, name, description, reminder_days)
		VALUES ($1, $2, $3, $4)
		RETURNING `+listColumns,
		pgUserID, name, db.TextFromString(req.Description), db.Int4FromPtr(req.ReminderDays))
	return scanList(row)
}

func (s *Service) Update(ctx context.Context, userID, listID string, req UpdateRequest) (List, error) {
	existing, err := s.Get(ctx, userID, listID)
	if err != nil {
		return List{}, err
	}
	name := existing.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return List{}, fmt.Errorf("list name is required")
		}
	}
	description := existing.Description
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}
	reminderDays := existing.ReminderDays
	if req.ClearReminderDays {
		reminderDays = nil
	} else if req.ReminderDays != nil {
		if err := validateReminderDays(req.ReminderDays); err != nil {
			return List{}, err
		}
		reminderDays = req.ReminderDays
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE contact_lists SET name = $2, description = $3, reminder_days = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+listColumns,
		existing.ID, name, db.TextFromString(description), db.Int4FromPtr(reminderDays))
	return scanList(row)
}

func (s *Service) Delete(ctx context.Context, userID, listID string) error {
	if _, err := s.Get(ctx, userID, listID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM contact_lists WHERE id = $1`, listID)
	return err
}

func validateReminderDays(days *int) error {
	if days == nil {
		return nil
	}
	if *days < 1 || *days > 365 {
		return fmt.Errorf("reminder_days must be between 1 and 365")
	}
	return nil
}

func scanList(row pgx.Row) (List, error) {
	var (
		id           pgtype.UUID
		userID       pgtype.UUID
		description  pgtype.Text
		reminderDays pgtype.Int4
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
		item         List
	)
	err := row.Scan(&id, &userID, &item.Name, &description, &reminderDays, &createdAt, &updatedAt)
	if err != nil {
		return List{}, err
	}
	item.ID = db.UUIDToString(id)
	item.UserID = db.UUIDToString(userID)
	item.Description = db.TextToString(description)
	if reminderDays.Valid {
		days := int(reminderDays.Int32)
		item.ReminderDays = &days
	}
	item.CreatedAt = db.TimeFromPg(createdAt)
	item.UpdatedAt = db.TimeFromPg(updatedAt)
	return item, nil
}
