package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	Init("unit-test-secret", 60)

	token, claims, err := GenerateAccessToken("user-1", "a@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, "a@example.com", parsed.Email)
	assert.Equal(t, AccessSubject, parsed.Subject)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), parsed.ExpiresAt.Time, 5*time.Second)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	Init("secret-a", 60)
	token, _, err := GenerateAccessToken("user-1", "a@example.com")
	require.NoError(t, err)

	Init("secret-b", 60)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	Init("unit-test-secret", -1)
	token, _, err := GenerateAccessToken("user-1", "a@example.com")
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}
