package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradebio/profile-hub/internal/lib/jwt"
)

func TestGenerateAndParseToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	token, err := maker.GenerateToken("plumber-joe", "b2a7c1de-0000-4000-8000-000000000001")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "plumber-joe", claims.Username)
	assert.Equal(t, "b2a7c1de-0000-4000-8000-000000000001", claims.AccountUID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	other := jwt.NewJWTMaker("other-secret", time.Hour)

	token, err := maker.GenerateToken("plumber-joe", "uid-1")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", -time.Minute)

	token, err := maker.GenerateToken("plumber-joe", "uid-1")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	require.Error(t, err)
}
