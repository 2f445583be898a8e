package core

import "time"

// Session is the identity assertion embedded in a signed token. Sessions are
// purely claims-based: there is no server-side session table, and a token is
// valid iff its signature verifies and its expiry has not passed.
type Session struct {
	UserID    string    // Identifier of the authenticated user
	IssuedAt  time.Time // When the token was minted
	ExpiresAt time.Time // When the token stops being valid
}
