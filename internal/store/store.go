// ABOUTME: Store interface and data types for taskdock persistence
// ABOUTME: Defines User, Task structs and the store interfaces for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
// For owner-scoped task lookups this also covers "exists but owned by
// someone else" — the two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating or updating a user would collide
// with another user's email.
var ErrEmailExists = errors.New("email already registered")

// User represents a registered account. Email is stored lowercased and is
// unique. PasswordHash is a bcrypt hash and must never reach a client.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Task represents a single to-do item. UserID is fixed at creation; a task
// is only visible to its owner.
type Task struct {
	ID        string
	UserID    string
	Title     string
	DueDate   *time.Time // nil = no due date
	Completed bool
	CreatedAt time.Time
}

// TaskFilter narrows ListTasks results. Zero value matches everything the
// owner can see.
type TaskFilter struct {
	// Search substring-matches the title, case-insensitively.
	Search string
	// Completed filters on the completion flag when non-nil.
	Completed *bool
	// DueOn restricts to tasks due within that calendar day, interpreted in
	// the DueOn value's own location.
	DueOn *time.Time
}

// UserStore defines methods for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, id string, name, email *string) (*User, error)
}

// TaskStore defines methods for task persistence. Every operation that
// names a task takes the owner's user ID and applies it atomically with the
// task ID; there is no unscoped variant.
type TaskStore interface {
	CreateTask(ctx context.Context, task *Task) error
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]*Task, error)
	SetTaskCompleted(ctx context.Context, taskID, userID string, completed bool) (*Task, error)
	DeleteTask(ctx context.Context, taskID, userID string) error
}
