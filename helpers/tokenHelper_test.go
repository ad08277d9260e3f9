package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")

	token, refreshToken, err := GenerateAllTokens("alice@example.com", "Alice", "abc123", "vendor")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, refreshToken)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "abc123", claims.Uid)
	assert.Equal(t, "vendor", claims.Role)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")

	token, _, err := GenerateAllTokens("alice@example.com", "Alice", "abc123", "customer")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")
	token, _, err := GenerateAllTokens("alice@example.com", "Alice", "abc123", "customer")
	require.NoError(t, err)

	t.Setenv("SECRET_KEY", "another-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
