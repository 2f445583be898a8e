package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
)

func newUser(email string) *core.User {
	return &core.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: []byte("$2a$04$hash"),
		CreatedAt:    time.Now(),
	}
}

func newTask(userID, title string, createdAt time.Time) *core.Task {
	return &core.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Priority:  core.PriorityMedium,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	user := newUser("a@x.com")
	require.NoError(t, s.CreateUser(ctx, user))

	// Duplicate email must be rejected
	err := s.CreateUser(ctx, newUser("a@x.com"))
	assert.ErrorIs(t, err, core.ErrDuplicateEmail)

	got, err := s.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)

	got, err = s.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = s.UserByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, core.ErrUserNotFound)

	// Email matching is case-sensitive as stored
	_, err = s.UserByEmail(ctx, "A@X.COM")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestMemoryStoreTaskOwnership(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	mine := newTask("owner", "mine", time.Now())
	theirs := newTask("other", "theirs", time.Now())
	require.NoError(t, s.CreateTask(ctx, mine))
	require.NoError(t, s.CreateTask(ctx, theirs))

	tasks, err := s.TasksByUser(ctx, "owner", ports.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)

	// Another user's task behaves as if absent
	_, err = s.TaskByID(ctx, "owner", theirs.ID)
	assert.ErrorIs(t, err, core.ErrTaskNotFound)

	stolen := *theirs
	stolen.UserID = "owner"
	assert.ErrorIs(t, s.UpdateTask(ctx, &stolen), core.ErrTaskNotFound)
	assert.ErrorIs(t, s.DeleteTask(ctx, "owner", theirs.ID), core.ErrTaskNotFound)

	// The real owner is unaffected
	got, err := s.TaskByID(ctx, "other", theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, "theirs", got.Title)
}

func TestMemoryStoreTaskFiltering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Now()
	groceries := newTask("u", "Buy groceries", base.Add(-2*time.Hour))
	groceries.Priority = core.PriorityLow
	report := newTask("u", "Write report", base.Add(-time.Hour))
	report.Description = "quarterly numbers"
	report.Priority = core.PriorityHigh
	done := newTask("u", "Ship release", base)
	done.Completed = true

	for _, task := range []*core.Task{groceries, report, done} {
		require.NoError(t, s.CreateTask(ctx, task))
	}

	// Newest first
	tasks, err := s.TasksByUser(ctx, "u", ports.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Ship release", tasks[0].Title)
	assert.Equal(t, "Buy groceries", tasks[2].Title)

	// Search is case-insensitive and covers the description
	tasks, err = s.TasksByUser(ctx, "u", ports.TaskFilter{Search: "QUARTERLY"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Title)

	tasks, err = s.TasksByUser(ctx, "u", ports.TaskFilter{Priority: core.PriorityLow})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy groceries", tasks[0].Title)

	completed := true
	tasks, err = s.TasksByUser(ctx, "u", ports.TaskFilter{Completed: &completed})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship release", tasks[0].Title)
}

func TestMemoryStoreUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	task := newTask("u", "original", time.Now())
	require.NoError(t, s.CreateTask(ctx, task))

	task.Title = "renamed"
	task.Completed = true
	require.NoError(t, s.UpdateTask(ctx, task))

	got, err := s.TaskByID(ctx, "u", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.True(t, got.Completed)

	require.NoError(t, s.DeleteTask(ctx, "u", task.ID))
	_, err = s.TaskByID(ctx, "u", task.ID)
	assert.ErrorIs(t, err, core.ErrTaskNotFound)
}
