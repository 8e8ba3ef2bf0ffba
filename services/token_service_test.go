package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ella-marsh/handyhub-api/models"
)

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret")

	user := &models.User{
		ID:       42,
		Username: "jordan",
		Role:     models.RoleProvider,
	}

	signed, err := tokens.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "jordan", claims.Username)
	assert.Equal(t, models.RoleProvider, claims.Role)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a")
	verifier := NewTokenService("secret-b")

	signed, err := issuer.GenerateToken(&models.User{ID: 1, Username: "a", Role: models.RoleCustomer})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(signed)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	tokens := NewTokenService("test-secret")

	_, err := tokens.ValidateToken("not-a-token")
	assert.Error(t, err)

	_, err = tokens.ValidateToken("")
	assert.Error(t, err)
}
