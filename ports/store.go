package ports

import (
	"context"

	"github.com/taskdeck/taskdeck/core"
)

// UserStore persists user records.
type UserStore interface {
	// CreateUser stores a new user. Returns core.ErrDuplicateEmail when the
	// email is already taken.
	CreateUser(ctx context.Context, user *core.User) error

	// UserByEmail returns core.ErrUserNotFound when no user has the email.
	// Email matching is exact, case-sensitive as stored.
	UserByEmail(ctx context.Context, email string) (*core.User, error)

	// UserByID returns core.ErrUserNotFound when the id is unknown.
	UserByID(ctx context.Context, id string) (*core.User, error)
}

// TaskFilter narrows a task listing. Zero values mean "no constraint".
type TaskFilter struct {
	Search    string        // case-insensitive substring over title and description
	Priority  core.Priority // exact match
	Completed *bool         // exact match when non-nil
}

// TaskStore persists tasks. Every operation is scoped to an owning user;
// a task belonging to another user behaves as if it did not exist.
type TaskStore interface {
	CreateTask(ctx context.Context, task *core.Task) error

	// TasksByUser returns the user's tasks matching the filter, newest first.
	TasksByUser(ctx context.Context, userID string, filter TaskFilter) ([]core.Task, error)

	// TaskByID returns core.ErrTaskNotFound when absent or not owned by userID.
	TaskByID(ctx context.Context, userID, taskID string) (*core.Task, error)

	// UpdateTask overwrites the stored task keyed by task.ID and task.UserID.
	UpdateTask(ctx context.Context, task *core.Task) error

	// DeleteTask removes the task, returning core.ErrTaskNotFound when absent
	// or not owned by userID.
	DeleteTask(ctx context.Context, userID, taskID string) error
}
