package account

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns passwords into stored hashes and checks them.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash.
	Verify(hash, password string) bool
}

// BcryptHasher hashes with bcrypt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher at bcrypt's default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password longer than 72 bytes", ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
