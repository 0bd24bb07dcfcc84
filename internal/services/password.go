package services

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with a salted one-way function.
type Hasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches digest. Mismatches are not errors.
	Verify(plain, digest string) bool
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// setPassword is the single place a plaintext password becomes a stored hash.
func setPassword(h Hasher, user *models.User, plain string) error {
	hash, err := h.Hash(plain)
	if err != nil {
		return err
	}
	user.Password = hash
	return nil
}
