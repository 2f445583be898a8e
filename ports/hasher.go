package ports

// PasswordHasher is the opaque one-way credential verifier.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)

	// Compare returns a non-nil error when the password does not match the hash.
	Compare(hash []byte, password string) error
}
