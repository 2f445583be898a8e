package tokenizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
)

// JWTTokenizer implements the Tokenizer interface with HS256 JWTs signed
// under separate access and refresh secrets.
type JWTTokenizer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTTokenizer creates a new JWT tokenizer. Both secrets must be set.
func NewJWTTokenizer(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) (ports.Tokenizer, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, core.ErrMissingSecret
	}
	return &JWTTokenizer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssueAccessToken signs a short-lived token asserting the user's identity.
func (j *JWTTokenizer) IssueAccessToken(userID string) (string, error) {
	return j.issue(userID, j.accessSecret, j.accessTTL)
}

// IssueRefreshToken signs a long-lived token asserting the user's identity.
func (j *JWTTokenizer) IssueRefreshToken(userID string) (string, error) {
	return j.issue(userID, j.refreshSecret, j.refreshTTL)
}

func (j *JWTTokenizer) issue(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates the signature and expiry of an access token and
// extracts the embedded identity.
func (j *JWTTokenizer) VerifyAccessToken(tokenStr string) (*core.Session, error) {
	return j.verify(tokenStr, j.accessSecret)
}

// VerifyRefreshToken validates the signature and expiry of a refresh token and
// extracts the embedded identity.
func (j *JWTTokenizer) VerifyRefreshToken(tokenStr string) (*core.Session, error) {
	return j.verify(tokenStr, j.refreshSecret)
}

func (j *JWTTokenizer) verify(tokenStr string, secret []byte) (*core.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		// An expired token must be distinguishable from a forged one
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrTokenExpired
		}
		return nil, core.ErrInvalidToken
	}

	if !token.Valid {
		return nil, core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.Subject == "" {
		return nil, core.ErrInvalidToken
	}

	session := &core.Session{
		UserID: claims.Subject,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}
