package hasher

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck/ports"
)

// BcryptHasher implements the PasswordHasher interface using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the default bcrypt cost.
func NewBcryptHasher() ports.PasswordHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewBcryptHasherWithCost creates a hasher with an explicit cost. Tests use
// bcrypt.MinCost to keep hashing cheap.
func NewBcryptHasherWithCost(cost int) ports.PasswordHasher {
	return &BcryptHasher{cost: cost}
}

// Hash derives a one-way verifier from the password.
func (h *BcryptHasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), h.cost)
}

// Compare checks the password against a stored verifier.
func (h *BcryptHasher) Compare(hash []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}
