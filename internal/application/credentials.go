package application

import (
	"errors"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

// MinPasswordLength is the shortest password accepted, in characters.
const MinPasswordLength = 8

// CredentialStore hashes and verifies passwords with bcrypt.
type CredentialStore struct {
	cost int

	dummyOnce sync.Once
	dummy     string
}

func NewCredentialStore(cost int) *CredentialStore {
	return &CredentialStore{cost: cost}
}

// Hash returns a salted bcrypt hash of password.
func (s *CredentialStore) Hash(password string) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", apperror.ErrPasswordTooShort
	}
	h, err := helpers.HashPassword(password, s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperror.ErrPasswordTooLong
	}
	return h, err
}

// Verify reports whether password matches hash. A malformed hash never matches.
func (s *CredentialStore) Verify(password, hash string) bool {
	return helpers.CompareHashAndPassword(hash, password)
}

// Burn spends one bcrypt comparison against a throwaway hash, so a login for an
// unknown handle costs the same as one with a wrong password.
func (s *CredentialStore) Burn(password string) {
	s.dummyOnce.Do(func() {
		s.dummy, _ = helpers.HashPassword("not-a-real-password", s.cost)
	})
	_ = helpers.CompareHashAndPassword(s.dummy, password)
}
