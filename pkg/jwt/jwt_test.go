package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := NewManager("test-secret")

	token, err := m.GenerateAccessToken("user-1", "store-1", "owner")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "store-1", claims.StoreID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a").GenerateAccessToken("user-1", "store-1", "owner")
	require.NoError(t, err)

	_, err = NewManager("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewManager("test-secret").ValidateToken("not.a.token")
	assert.Error(t, err)
}
