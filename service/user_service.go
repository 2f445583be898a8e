package service

import (
	"context"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
)

// UserService exposes user profile lookups.
type UserService struct {
	users ports.UserStore
}

// NewUserService creates a new user service.
func NewUserService(users ports.UserStore) *UserService {
	return &UserService{users: users}
}

// Profile returns the user's profile. Returns core.ErrUserNotFound when the
// identity asserted by the token no longer maps to a stored user.
func (s *UserService) Profile(ctx context.Context, userID string) (*core.User, error) {
	return s.users.UserByID(ctx, userID)
}
