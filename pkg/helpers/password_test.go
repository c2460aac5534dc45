package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_SaltedPerCall(t *testing.T) {
	a, err := HashPassword("longpassword1", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("longpassword1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, CompareHashAndPassword(a, "longpassword1"))
	assert.True(t, CompareHashAndPassword(b, "longpassword1"))
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	h, err := HashPassword("longpassword1", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestCompareHashAndPassword(t *testing.T) {
	h, err := HashPassword("longpassword1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, CompareHashAndPassword(h, "longpassword2"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "longpassword1"))
	assert.False(t, CompareHashAndPassword("", ""))
}
