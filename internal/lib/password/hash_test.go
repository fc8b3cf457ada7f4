package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradebio/profile-hub/internal/lib/password"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := password.GetHash("s3cret-trade")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-trade", hash)

	assert.NoError(t, password.CompareHash(hash, "s3cret-trade"))
	assert.Error(t, password.CompareHash(hash, "wrong-password"))
}
