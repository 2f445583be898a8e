package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
)

var (
	bktUsers  = []byte("users")
	bktEmails = []byte("emails")
	bktTasks  = []byte("tasks")
)

// BoltStore is an embedded bbolt implementation of UserStore and TaskStore.
// Tasks are keyed "userID/taskID" so one prefix scan yields a user's tasks.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database file at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bktUsers, bktEmails, bktTasks} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func taskBoltKey(userID, taskID string) []byte {
	return []byte(userID + "/" + taskID)
}

// CreateUser stores a new user inside one transaction, enforcing email
// uniqueness through the email index bucket.
func (s *BoltStore) CreateUser(ctx context.Context, user *core.User) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		emails := tx.Bucket(bktEmails)
		if emails.Get([]byte(user.Email)) != nil {
			return core.ErrDuplicateEmail
		}

		payload, err := json.Marshal(recordFromUser(user))
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		if err := tx.Bucket(bktUsers).Put([]byte(user.ID), payload); err != nil {
			return err
		}
		return emails.Put([]byte(user.Email), []byte(user.ID))
	})
}

// UserByEmail resolves the email index and loads the user record.
func (s *BoltStore) UserByEmail(ctx context.Context, email string) (*core.User, error) {
	var user *core.User
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(bktEmails).Get([]byte(email))
		if id == nil {
			return core.ErrUserNotFound
		}
		return s.loadUser(tx, id, &user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserByID loads a user record.
func (s *BoltStore) UserByID(ctx context.Context, id string) (*core.User, error) {
	var user *core.User
	err := s.db.View(func(tx *bolt.Tx) error {
		return s.loadUser(tx, []byte(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *BoltStore) loadUser(tx *bolt.Tx, id []byte, out **core.User) error {
	payload := tx.Bucket(bktUsers).Get(id)
	if payload == nil {
		return core.ErrUserNotFound
	}
	var rec userRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return fmt.Errorf("failed to unmarshal user: %w", err)
	}
	*out = rec.toUser()
	return nil
}

// CreateTask stores a task under its owner's key prefix.
func (s *BoltStore) CreateTask(ctx context.Context, task *core.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bktTasks).Put(taskBoltKey(task.UserID, task.ID), payload)
	})
}

// TasksByUser prefix-scans the user's tasks and applies the filter, newest first.
func (s *BoltStore) TasksByUser(ctx context.Context, userID string, filter ports.TaskFilter) ([]core.Task, error) {
	tasks := make([]core.Task, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bktTasks).Cursor()
		prefix := []byte(userID + "/")
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var t core.Task
			if err := json.Unmarshal(v, &t); err != nil {
				return fmt.Errorf("failed to unmarshal task: %w", err)
			}
			if matchesFilter(&t, filter) {
				tasks = append(tasks, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(tasks)
	return tasks, nil
}

// TaskByID loads one task owned by userID.
func (s *BoltStore) TaskByID(ctx context.Context, userID, taskID string) (*core.Task, error) {
	var task core.Task
	err := s.db.View(func(tx *bolt.Tx) error {
		payload := tx.Bucket(bktTasks).Get(taskBoltKey(userID, taskID))
		if payload == nil {
			return core.ErrTaskNotFound
		}
		return json.Unmarshal(payload, &task)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask overwrites a stored task owned by task.UserID.
func (s *BoltStore) UpdateTask(ctx context.Context, task *core.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		key := taskBoltKey(task.UserID, task.ID)
		b := tx.Bucket(bktTasks)
		if b.Get(key) == nil {
			return core.ErrTaskNotFound
		}
		return b.Put(key, payload)
	})
}

// DeleteTask removes a task owned by userID.
func (s *BoltStore) DeleteTask(ctx context.Context, userID, taskID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		key := taskBoltKey(userID, taskID)
		b := tx.Bucket(bktTasks)
		if b.Get(key) == nil {
			return core.ErrTaskNotFound
		}
		return b.Delete(key)
	})
}
