package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	auth := SetupAuth("unit-test-secret")

	token, err := auth.GenerateToken(42, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)

	claims, err = auth.VerifyToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestVerifyToken_RejectsBadInput(t *testing.T) {
	auth := SetupAuth("unit-test-secret")

	_, err := auth.VerifyToken("")
	assert.Error(t, err)

	_, err = auth.VerifyToken("Bearer ")
	assert.Error(t, err)

	_, err = auth.VerifyToken("not-a-jwt")
	assert.Error(t, err)

	other := SetupAuth("different-secret")
	token, err := other.GenerateToken(1, "x@example.com")
	require.NoError(t, err)
	_, err = auth.VerifyToken(token)
	assert.Error(t, err)
}

func TestGenerateToken_RequiresInputs(t *testing.T) {
	auth := SetupAuth("unit-test-secret")

	_, err := auth.GenerateToken(0, "user@example.com")
	assert.Error(t, err)
	_, err = auth.GenerateToken(42, "")
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	auth := SetupAuth("unit-test-secret")

	hashed, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hashed)

	assert.NoError(t, auth.VerifyPassword("s3cret-pass", hashed))
	assert.Error(t, auth.VerifyPassword("wrong", hashed))
}
