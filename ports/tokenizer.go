package ports

import "github.com/taskdeck/taskdeck/core"

// Tokenizer mints and verifies the signed session tokens. Access and refresh
// tokens share a shape but are signed under separate secrets with separate
// lifetimes.
type Tokenizer interface {
	IssueAccessToken(userID string) (string, error)
	IssueRefreshToken(userID string) (string, error)

	// VerifyAccessToken returns core.ErrTokenExpired when the expiry has
	// passed and core.ErrInvalidToken for every other failure.
	VerifyAccessToken(token string) (*core.Session, error)
	VerifyRefreshToken(token string) (*core.Session, error)
}
