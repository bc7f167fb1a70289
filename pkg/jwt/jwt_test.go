package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour, "go-inventory-api")

	token, err := m.GenerateToken(7, "ana@example.com", "Ana", "v1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "v1", claims.TokenVersion)
	assert.Equal(t, "7", claims.Subject)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("secret", time.Hour, "go-inventory-api")

	t.Run("empty", func(t *testing.T) {
		_, err := m.ValidateToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewManager("other", time.Hour, "go-inventory-api").GenerateToken(1, "a@b.c", "A", "v")
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := NewManager("secret", time.Hour, "someone-else").GenerateToken(1, "a@b.c", "A", "v")
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := &Manager{secret: []byte("secret"), expiration: -time.Hour, issuer: "go-inventory-api"}
		token, err := expired.GenerateToken(1, "a@b.c", "A", "v")
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
