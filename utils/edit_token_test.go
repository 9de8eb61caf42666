package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditTokenRoundTrip(t *testing.T) {
	token, err := GenerateEditToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	hash, err := HashEditToken(token)
	require.NoError(t, err)

	assert.True(t, VerifyEditToken(hash, token))
	assert.False(t, VerifyEditToken(hash, token+"x"))
	assert.False(t, VerifyEditToken("", token))
	assert.False(t, VerifyEditToken(hash, ""))
}

func TestGenerateEditTokenUnique(t *testing.T) {
	a, err := GenerateEditToken()
	require.NoError(t, err)
	b, err := GenerateEditToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashEditTokenEmpty(t *testing.T) {
	_, err := HashEditToken("")
	assert.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
