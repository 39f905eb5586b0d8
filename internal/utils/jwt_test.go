package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "a@example.com", "Amy", "ADMIN", "secret", 1)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "Amy", claims.Name)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseToken_Rejects(t *testing.T) {
	token, err := GenerateToken(1, "a@example.com", "Amy", "USER", "secret", 1)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err, "wrong secret")

	expired, err := GenerateToken(1, "a@example.com", "Amy", "USER", "secret", -1)
	require.NoError(t, err)
	_, err = ParseToken(expired, "secret")
	assert.Error(t, err, "expired")

	_, err = ParseToken("not-a-token", "secret")
	assert.Error(t, err)
}
