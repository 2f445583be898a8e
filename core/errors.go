package core

import "errors"

var (
	// ErrTokenExpired is returned when a token's expiry has passed
	ErrTokenExpired = errors.New("token has expired")

	// ErrInvalidToken is returned for any malformed or mis-signed token
	ErrInvalidToken = errors.New("invalid token")

	// ErrNoToken is returned when a protected request carries no bearer token
	ErrNoToken = errors.New("no token provided")

	// ErrNoRefreshToken is returned when the refresh cookie is absent
	ErrNoRefreshToken = errors.New("no refresh token provided")

	// ErrInvalidRefreshToken is returned when the refresh cookie fails verification
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrInvalidCredentials is returned for unknown email and wrong password alike
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail is returned when registering an email that already exists
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUserNotFound is returned when a user record is absent
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound is returned when a task is absent or owned by another user
	ErrTaskNotFound = errors.New("task not found")

	// ErrMissingSecret is returned at startup when a signing secret is unset
	ErrMissingSecret = errors.New("token signing secret is not set")
)
