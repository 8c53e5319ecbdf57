package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderStartsAsGuest(t *testing.T) {
	h := NewTokenHolder()

	assert.False(t, h.Authenticated())
	assert.Empty(t, h.Token())
	assert.Nil(t, h.Claims())
}

func TestHolderSetValidToken(t *testing.T) {
	Init("test-secret")
	h := NewTokenHolder()

	token, err := GenerateToken(42, "anna")
	require.NoError(t, err)
	require.NoError(t, h.Set(token))

	assert.True(t, h.Authenticated())
	assert.Equal(t, token, h.Token())
	require.NotNil(t, h.Claims())
	assert.Equal(t, int64(42), h.Claims().UserID)
	assert.Equal(t, "anna", h.Claims().Username)
}

func TestHolderRejectsInvalidToken(t *testing.T) {
	Init("test-secret")
	h := NewTokenHolder()

	assert.Error(t, h.Set("not-a-token"))
	assert.False(t, h.Authenticated())
}

func TestHolderRejectsTamperedToken(t *testing.T) {
	Init("test-secret")
	token, err := GenerateToken(1, "anna")
	require.NoError(t, err)

	h := NewTokenHolder()
	assert.Error(t, h.Set(token + "x"))
}

func TestHolderClearReturnsToGuest(t *testing.T) {
	Init("test-secret")
	h := NewTokenHolder()

	token, err := GenerateToken(42, "anna")
	require.NoError(t, err)
	require.NoError(t, h.Set(token))
	require.True(t, h.Authenticated())

	h.Clear()
	assert.False(t, h.Authenticated())
	assert.Empty(t, h.Token())
}
