package store

import (
	"context"
	"sync"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
)

// MemoryStore is an in-memory implementation of UserStore and TaskStore.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]userRecord // keyed by user id
	byEmail map[string]string     // email -> user id
	tasks   map[string]core.Task  // keyed by task id
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]userRecord),
		byEmail: make(map[string]string),
		tasks:   make(map[string]core.Task),
	}
}

// CreateUser stores a new user, enforcing email uniqueness.
func (s *MemoryStore) CreateUser(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return core.ErrDuplicateEmail
	}

	s.users[user.ID] = recordFromUser(user)
	s.byEmail[user.Email] = user.ID
	return nil
}

// UserByEmail looks a user up by exact email.
func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	rec := s.users[id]
	return rec.toUser(), nil
}

// UserByID looks a user up by id.
func (s *MemoryStore) UserByID(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return rec.toUser(), nil
}

// CreateTask stores a new task.
func (s *MemoryStore) CreateTask(ctx context.Context, task *core.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = *task
	return nil
}

// TasksByUser returns the user's tasks matching the filter, newest first.
func (s *MemoryStore) TasksByUser(ctx context.Context, userID string, filter ports.TaskFilter) ([]core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]core.Task, 0)
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if matchesFilter(&t, filter) {
			tasks = append(tasks, t)
		}
	}
	sortNewestFirst(tasks)
	return tasks, nil
}

// TaskByID returns the task when it exists and belongs to userID.
func (s *MemoryStore) TaskByID(ctx context.Context, userID, taskID string) (*core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, core.ErrTaskNotFound
	}
	return &t, nil
}

// UpdateTask overwrites a stored task owned by task.UserID.
func (s *MemoryStore) UpdateTask(ctx context.Context, task *core.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return core.ErrTaskNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

// DeleteTask removes a task owned by userID.
func (s *MemoryStore) DeleteTask(ctx context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok || t.UserID != userID {
		return core.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}
