package auth

import (
	"testing"
	"time"

	"campaignhub_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestParseToken_RoundTrip(t *testing.T) {
	token, err := SignToken(testSecret, Claims{
		UserID:      "u-1",
		Role:        "admin",
		Name:        "Dana",
		Permissions: []string{PermOrdersReview},
	}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)

	actor := claims.Actor()
	assert.Equal(t, "u-1", actor.ID)
	assert.Equal(t, models.UserRoleAdmin, actor.Role)
	assert.Equal(t, []string{PermOrdersReview}, actor.Permissions)
}

func TestParseToken_Rejects(t *testing.T) {
	token, err := SignToken(testSecret, Claims{UserID: "u-1", Role: "admin"}, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := SignToken(testSecret, Claims{
		UserID:           "u-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}, 0)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	noUser, err := SignToken(testSecret, Claims{Role: "admin"}, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(testSecret, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHasPermission(t *testing.T) {
	admin := models.Actor{ID: "a", Role: models.UserRoleAdmin, Permissions: []string{PermPaymentsView}}
	assert.True(t, HasPermission(admin, PermPaymentsView))
	assert.False(t, HasPermission(admin, PermPaymentsManage))

	assert.True(t, HasPermission(models.Actor{Role: models.UserRoleSuperAdmin}, PermPaymentsManage))
	assert.True(t, HasPermission(models.Actor{Role: models.UserRoleBrand}, PermOrdersReview))
	assert.False(t, HasPermission(models.Actor{Role: models.UserRoleInfluencer}, PermOrdersReview))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct-horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.Error(t, ValidatePassword("short"))
}
