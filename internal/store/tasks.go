// ABOUTME: Task store methods on SQLiteStore
// ABOUTME: Every lookup and mutation is scoped to (task id, owner id) in one statement

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateTask creates a new task. The ID and CreatedAt fields are populated
// if unset.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO tasks (id, user_id, title, due_date, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		nullTime(task.DueDate),
		task.Completed,
		task.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	s.logger.Debug("created task", "id", task.ID, "user_id", task.UserID)
	return nil
}

// ListTasks returns the owner's tasks matching the filter, newest first.
func (s *SQLiteStore) ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]*Task, error) {
	query := `
		SELECT id, user_id, title, due_date, completed, created_at
		FROM tasks
		WHERE user_id = ?
	`
	args := []any{userID}

	if filter.Search != "" {
		// LIKE is case-insensitive for ASCII in SQLite
		query += " AND title LIKE ? ESCAPE '\\'"
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}

	if filter.Completed != nil {
		query += " AND completed = ?"
		args = append(args, *filter.Completed)
	}

	if filter.DueOn != nil {
		day := filter.DueOn
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 0, 1)
		query += " AND due_date >= ? AND due_date < ?"
		args = append(args, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	}

	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// SetTaskCompleted sets the completion flag on the owner's task and returns
// the updated row. The ownership check and the mutation are one statement,
// so a non-owner can never flip another user's task. Returns ErrNotFound if
// the task doesn't exist or belongs to someone else. Setting the flag to its
// current value is a no-op, not an error.
func (s *SQLiteStore) SetTaskCompleted(ctx context.Context, taskID, userID string, completed bool) (*Task, error) {
	query := `UPDATE tasks SET completed = ? WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query, completed, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	s.logger.Debug("updated task", "id", taskID, "user_id", userID, "completed", completed)
	return s.getTask(ctx, taskID, userID)
}

// DeleteTask deletes the owner's task. The ownership check and the delete
// are one statement. Returns ErrNotFound if the task doesn't exist or
// belongs to someone else.
func (s *SQLiteStore) DeleteTask(ctx context.Context, taskID, userID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted task", "id", taskID, "user_id", userID)
	return nil
}

// getTask retrieves a single task scoped to its owner.
func (s *SQLiteStore) getTask(ctx context.Context, taskID, userID string) (*Task, error) {
	query := `
		SELECT id, user_id, title, due_date, completed, created_at
		FROM tasks
		WHERE id = ? AND user_id = ?
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return task, err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var task Task
	var dueDate sql.NullString
	var createdAt string

	err := row.Scan(&task.ID, &task.UserID, &task.Title, &dueDate, &task.Completed, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	if dueDate.Valid {
		t, err := parseTime(dueDate.String)
		if err != nil {
			return nil, err
		}
		task.DueDate = &t
	}

	task.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// escapeLike escapes the LIKE metacharacters in a user-supplied search term
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
