// ABOUTME: User store methods on SQLiteStore
// ABOUTME: Emails are normalized to lower case and unique across accounts

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizeEmail lowercases and trims an email address. All store lookups
// and writes go through this so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser creates a new user. The ID and CreatedAt fields are populated
// if unset. Returns ErrEmailExists if the email is already registered.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Email = NormalizeEmail(user.Email)

	query := `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Debug("created user", "id", user.ID, "email", user.Email)
	return nil
}

// GetUser retrieves a user by ID.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a user by email, case-insensitively.
// Returns ErrNotFound if no account has that email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, NormalizeEmail(email)))
}

// UpdateUser updates a user's name and/or email. Nil fields are left
// unchanged. Returns the updated user, ErrNotFound if the user doesn't
// exist, or ErrEmailExists if the new email is taken.
func (s *SQLiteStore) UpdateUser(ctx context.Context, id string, name, email *string) (*User, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if email != nil {
		sets = append(sets, "email = ?")
		args = append(args, NormalizeEmail(*email))
	}

	if len(sets) > 0 {
		query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		args = append(args, id)

		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if isConstraintViolation(err) {
				return nil, ErrEmailExists
			}
			return nil, fmt.Errorf("updating user: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("checking update result: %w", err)
		}
		if rows == 0 {
			return nil, ErrNotFound
		}

		s.logger.Debug("updated user", "id", id)
	}

	return s.GetUser(ctx, id)
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*User, error) {
	var user User
	var createdAt string

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	user.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &user, nil
}
