package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
)

func TestCredentialStore_HashAndVerify(t *testing.T) {
	s := NewCredentialStore(bcrypt.MinCost)

	a, err := s.Hash("longpassword1")
	require.NoError(t, err)
	b, err := s.Hash("longpassword1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, s.Verify("longpassword1", a))
	assert.True(t, s.Verify("longpassword1", b))
	assert.False(t, s.Verify("longpassword2", a))
}

func TestCredentialStore_RejectsShortPasswords(t *testing.T) {
	s := NewCredentialStore(bcrypt.MinCost)

	_, err := s.Hash("1234567")
	assert.ErrorIs(t, err, apperror.ErrPasswordTooShort)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	// length is counted in characters
	_, err = s.Hash("ééééééé")
	assert.ErrorIs(t, err, apperror.ErrPasswordTooShort)

	_, err = s.Hash("12345678")
	assert.NoError(t, err)
}

func TestCredentialStore_RejectsOverlongPasswords(t *testing.T) {
	s := NewCredentialStore(bcrypt.MinCost)

	_, err := s.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, apperror.ErrPasswordTooLong)
}

func TestCredentialStore_VerifyMalformedHash(t *testing.T) {
	s := NewCredentialStore(bcrypt.MinCost)

	assert.False(t, s.Verify("longpassword1", ""))
	assert.False(t, s.Verify("longpassword1", "$2a$garbage"))
}

func TestCredentialStore_Burn(t *testing.T) {
	s := NewCredentialStore(bcrypt.MinCost)

	assert.NotPanics(t, func() {
		s.Burn("whatever")
		s.Burn("whatever")
	})
	assert.NotEmpty(t, s.dummy)
}
