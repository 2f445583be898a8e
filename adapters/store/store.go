// Package store provides the persistence adapters for users and tasks:
// an in-memory store for tests, a Redis store, and an embedded bbolt store.
// All three share the same filtering and ordering semantics.
package store

import (
	"sort"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
)

// userRecord is the persisted shape of a user. Unlike core.User it carries
// the password hash, which is stripped from wire serialization.
type userRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func recordFromUser(u *core.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (r userRecord) toUser() *core.User {
	return &core.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// matchesFilter reports whether a task passes the listing filter. Search is a
// case-insensitive substring match over title and description.
func matchesFilter(t *core.Task, f ports.TaskFilter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	return true
}

// sortNewestFirst orders tasks by creation time, newest first.
func sortNewestFirst(tasks []core.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}
