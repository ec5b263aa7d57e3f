package auth_test

import (
	"testing"

	"visacenter_backend/internal/auth"
	"visacenter_backend/internal/config"
	"visacenter_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTTLMin = 15
	config.AppConfig = cfg
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := auth.GenerateToken("user-123", models.UserRoleAgent)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, string(models.UserRoleAgent), claims.Role)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := auth.ParseToken("not.a.token")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("user-123", models.UserRoleUser)
	require.NoError(t, err)

	config.AppConfig.JWT.Secret = "another-secret"
	defer func() { config.AppConfig.JWT.Secret = "test-secret" }()

	_, err = auth.ParseToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestNewRefreshToken_Unique(t *testing.T) {
	t.Parallel()

	a, err := auth.NewRefreshToken()
	require.NoError(t, err)
	b, err := auth.NewRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 64) // 32 байта в hex
	assert.NotEqual(t, a, b)
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.True(t, auth.CheckPasswordHash("correct horse battery", hash))
	assert.False(t, auth.CheckPasswordHash("wrong password", hash))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.Error(t, auth.ValidatePassword("short"))
	assert.NoError(t, auth.ValidatePassword("long enough password"))
}
