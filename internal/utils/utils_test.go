package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12.35", FormatAmount(decimal.RequireFromString("12.3456")))
	assert.Equal(t, "5.00", FormatAmount(decimal.NewFromInt(5)))
	assert.Equal(t, "-20.00", FormatAmount(decimal.NewFromInt(-20)))
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
}

func TestSecretHash(t *testing.T) {
	hash, err := HashSecret("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckSecretHash("s3cret", hash))
	assert.False(t, CheckSecretHash("other", hash))
}

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret", time.Minute, "issuer")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "issuer", claims.Issuer)

	_, err = ParseAndValidateJWT(token, "wrong")
	assert.Error(t, err)
}
