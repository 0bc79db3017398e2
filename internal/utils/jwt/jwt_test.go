package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusacademy/courses-server-go/pkg/types"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "member@example.com", types.RoleMember, "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token, "test-secret")
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "member@example.com", claims.Email)
	assert.Equal(t, types.RoleMember, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, claims.IssuedAt.Time.Add(TokenTTL), claims.ExpiresAt.Time, 0)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "a@b.com", types.RoleAdmin, "secret-one")
	require.NoError(t, err)

	_, err = VerifyToken(token, "secret-two")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken("not.a.token", "test-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
