package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "exp-123")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, createdAt, decodedAt)
	assert.Equal(t, "exp-123", decodedID)

	// ids may themselves contain the separator
	token = EncodeToken(createdAt, "a|b")
	_, decodedID, err = DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "a|b", decodedID)

	now := time.Now().UTC()
	decodedNow, _, err := DecodeToken(EncodeToken(now, "x"))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// "2023-05-15T00:00:00Z" without a separator
	_, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// "notadate|2023-05-15T14:30:45.123456789Z"
	_, _, err = DecodeToken("bm90YWRhdGV8MjAyMy0wNS0xNVQxNDozMDo0NS4xMjM0NTY3ODla")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}
