package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)
	assert.GreaterOrEqual(t, len(hash), 60)
}

func TestHashPassword_TooShort(t *testing.T) {
	for _, pw := range []string{"", "a", "1234567"} {
		hash, err := HashPassword(pw)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
		assert.Empty(t, hash)
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("testpassword123")
	require.NoError(t, err)
	h2, err := HashPassword("testpassword123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	require.NoError(t, err)

	assert.True(t, CheckPassword("testpassword123", hash))
	assert.False(t, CheckPassword("wrongpassword", hash))
	assert.False(t, CheckPassword("testpassword123", "not-a-hash"))
}
