// Package users manages user accounts, credentials, and reminder preferences.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/kinectapp/kinect/internal/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidPassword    = errors.New("invalid password")
)

const userColumns = `id, username, email, password_hash, display_name, is_active,
	reminders_enabled, reminder_cadence, created_at, updated_at, last_login_at`

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
		logger: log.With(slog.String("service", "users")),
	}
}

func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	if s.pool == nil {
		return User{}, fmt.Errorf("users store not configured")
	}
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return User{}, err
	}
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, pgID)
	user, _, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (User, error) {
	if s.pool == nil {
		return User{}, fmt.Errorf("users store not configured")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return User{}, fmt.Errorf("username is required")
	}
	password := strings.TrimSpace(req.Password)
	if password == "" {
		return User{}, fmt.Errorf("password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = username
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		username, db.TextFromString(req.Email), string(hashed), db.TextFromString(displayName))
	user, _, err := scanUser(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrUsernameTaken
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (User, error) {
	if s.pool == nil {
		return User{}, fmt.Errorf("users store not configured")
	}
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return User{}, ErrInvalidCredentials
	}
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, passwordHash, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !user.IsActive {
		return User{}, ErrInactiveUser
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if _, err := s.pool.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, user.ID); err != nil {
		s.logger.Warn("touch last login failed", slog.Any("error", err))
	}
	return user, nil
}

// ListForReminders returns active users opted into reminders for the given
// cadence, in creation order. An empty cadence returns all opted-in users.
func (s *Service) ListForReminders(ctx context.Context, cadence string) ([]User, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("users store not configured")
	}
	query := `SELECT ` + userColumns + ` FROM users
		WHERE is_active AND reminders_enabled`
	args := []any{}
	if strings.TrimSpace(cadence) != "" {
		query += ` AND reminder_cadence = $1`
		args = append(args, strings.TrimSpace(cadence))
	}
	query += ` ORDER BY created_at`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []User{}
	for rows.Next() {
		user, _, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, user)
	}
	return items, rows.Err()
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (User, error) {
	if s.pool == nil {
		return User{}, fmt.Errorf("users store not configured")
	}
	existing, err := s.Get(ctx, userID)
	if err != nil {
		return User{}, err
	}
	displayName := existing.DisplayName
	if req.DisplayName != nil {
		displayName = strings.TrimSpace(*req.DisplayName)
	}
	if displayName == "" {
		displayName = existing.Username
	}
	email := existing.Email
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET display_name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		existing.ID, db.TextFromString(displayName), db.TextFromString(email))
	user, _, err := scanUser(row)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) UpdateReminders(ctx context.Context, userID string, req UpdateRemindersRequest) (User, error) {
	if s.pool == nil {
		return User{}, fmt.Errorf("users store not configured")
	}
	existing, err := s.Get(ctx, userID)
	if err != nil {
		return User{}, err
	}
	enabled := existing.RemindersEnabled
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	cadence := existing.ReminderCadence
	if req.Cadence != nil {
		cadence, err = normalizeCadence(*req.Cadence)
		if err != nil {
			return User{}, err
		}
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET reminders_enabled = $2, reminder_cadence = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		existing.ID, enabled, cadence)
	user, _, err := scanUser(row)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if s.pool == nil {
		return fmt.Errorf("users store not configured")
	}
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("new password is required")
	}
	pgID, err := db.ParseUUID(userID)
	if err != nil {
		return err
	}
	var passwordHash string
	if err := s.pool.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, pgID).Scan(&passwordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(currentPassword)) != nil {
		return ErrInvalidPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, pgID, string(hashed))
	return err
}

func normalizeCadence(raw string) (string, error) {
	cadence := strings.ToLower(strings.TrimSpace(raw))
	switch cadence {
	case CadenceDaily, CadenceWeekly, CadenceMonthly:
		return cadence, nil
	case "":
		return CadenceDaily, nil
	default:
		return "", fmt.Errorf("invalid cadence: %s", raw)
	}
}

func scanUser(row pgx.Row) (User, string, error) {
	var (
		id           pgtype.UUID
		email        pgtype.Text
		displayName  pgtype.Text
		passwordHash string
		user         User
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
		lastLoginAt  pgtype.Timestamptz
	)
	err := row.Scan(&id, &user.Username, &email, &passwordHash, &displayName, &user.IsActive,
		&user.RemindersEnabled, &user.ReminderCadence, &createdAt, &updatedAt, &lastLoginAt)
	if err != nil {
		return User{}, "", err
	}
	user.ID = db.UUIDToString(id)
	user.Email = db.TextToString(email)
	user.DisplayName = db.TextToString(displayName)
	user.CreatedAt = db.TimeFromPg(createdAt)
	user.UpdatedAt = db.TimeFromPg(updatedAt)
	user.LastLoginAt = db.TimeFromPg(lastLoginAt)
	return user, passwordHash, nil
}
