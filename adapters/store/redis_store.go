package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
)

// RedisStore is a Redis implementation of UserStore and TaskStore. Records are
// stored as JSON documents; listing filters are applied after the load since
// the store is only reachable by key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "taskdeck:",
	}
}

func (s *RedisStore) userKey(id string) string      { return s.prefix + "user:" + id }
func (s *RedisStore) emailKey(email string) string  { return s.prefix + "email:" + email }
func (s *RedisStore) taskKey(id string) string      { return s.prefix + "task:" + id }
func (s *RedisStore) taskSetKey(userID string) string {
	return s.prefix + "user:" + userID + ":tasks"
}

// CreateUser stores a new user. The email index is claimed with SETNX so two
// concurrent registrations cannot both succeed.
func (s *RedisStore) CreateUser(ctx context.Context, user *core.User) error {
	claimed, err := s.client.SetNX(ctx, s.emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}
	if !claimed {
		return core.ErrDuplicateEmail
	}

	payload, err := json.Marshal(recordFromUser(user))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := s.client.Set(ctx, s.userKey(user.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// UserByEmail resolves the email index and loads the user document.
func (s *RedisStore) UserByEmail(ctx context.Context, email string) (*core.User, error) {
	id, err := s.client.Get(ctx, s.emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve email: %w", err)
	}
	return s.UserByID(ctx, id)
}

// UserByID loads a user document.
func (s *RedisStore) UserByID(ctx context.Context, id string) (*core.User, error) {
	payload, err := s.client.Get(ctx, s.userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var rec userRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return rec.toUser(), nil
}

// CreateTask stores a task document and indexes it under its owner.
func (s *RedisStore) CreateTask(ctx context.Context, task *core.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if err := s.client.Set(ctx, s.taskKey(task.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store task: %w", err)
	}
	if err := s.client.SAdd(ctx, s.taskSetKey(task.UserID), task.ID).Err(); err != nil {
		return fmt.Errorf("failed to index task: %w", err)
	}
	return nil
}

// TasksByUser loads the user's task set and applies the filter, newest first.
func (s *RedisStore) TasksByUser(ctx context.Context, userID string, filter ports.TaskFilter) ([]core.Task, error) {
	ids, err := s.client.SMembers(ctx, s.taskSetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load task index: %w", err)
	}

	tasks := make([]core.Task, 0, len(ids))
	for _, id := range ids {
		payload, err := s.client.Get(ctx, s.taskKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			// Index entry outlived the document; skip it
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load task: %w", err)
		}

		var t core.Task
		if err := json.Unmarshal(payload, &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task: %w", err)
		}
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

// TaskByID loads a task document and checks ownership.
func (s *RedisStore) TaskByID(ctx context.Context, userID, taskID string) (*core.Task, error) {
	payload, err := s.client.Get(ctx, s.taskKey(taskID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	var t core.Task
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	if t.UserID != userID {
		return nil, core.ErrTaskNotFound
	}
	return &t, nil
}

// UpdateTask overwrites a stored task after an ownership check.
func (s *RedisStore) UpdateTask(ctx context.Context, task *core.Task) error {
	if _, err := s.TaskByID(ctx, task.UserID, task.ID); err != nil {
		return err
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if err := s.client.Set(ctx, s.taskKey(task.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store task: %w", err)
	}
	return nil
}

// DeleteTask removes a task document and its index entry.
func (s *RedisStore) DeleteTask(ctx context.Context, userID, taskID string) error {
	if _, err := s.TaskByID(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.client.Del(ctx, s.taskKey(taskID)).Err(); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := s.client.SRem(ctx, s.taskSetKey(userID), taskID).Err(); err != nil {
		return fmt.Errorf("failed to unindex task: %w", err)
	}
	return nil
}
