// Package security provides the password hashing collaborator used by the
// user entity lifecycle.
package security

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the cost the service has always hashed with.
const DefaultBcryptCost = 10

// BcryptHasher hashes plaintext passwords with bcrypt and verifies them
// against stored hashes. It satisfies the domain's PasswordHasher interface.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost. A cost outside
// bcrypt's accepted range falls back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of plain.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare verifies plain against hashed. It returns nil on match.
func (h *BcryptHasher) Compare(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
