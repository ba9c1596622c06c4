package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("user-123")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("another-secret", time.Hour)

	token, err := m.Generate("user-123")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate("user-123")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestExpiry(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("user-123")
	require.NoError(t, err)

	exp, err := m.Expiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
}

func TestExtractTokenFromHeader(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	token, err := ExtractTokenFromHeader(req)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	req.Header.Set("Authorization", "abc.def.ghi")
	_, err = ExtractTokenFromHeader(req)
	assert.Error(t, err)
}
