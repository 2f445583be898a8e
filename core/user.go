package core

import "time"

// User represents a registered account. The password hash is an opaque
// verifier and is never serialized on the wire.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
