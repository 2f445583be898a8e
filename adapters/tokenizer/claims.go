package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the claims carried by both access and refresh tokens.
// The user id travels in the registered Subject claim; access and refresh
// tokens are told apart only by the secret that signed them.
type SessionClaims struct {
	jwt.RegisteredClaims
}
