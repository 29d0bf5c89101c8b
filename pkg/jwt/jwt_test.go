package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", "chatroom", time.Minute)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestGenerateAndValidate(t *testing.T) {
	m, err := NewManager("s3cret", "chatroom", time.Minute)
	require.NoError(t, err)

	token, err := m.GenerateAccessToken("alice", "Alice")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Principal())
	assert.Equal(t, "Alice", claims.Username)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer, err := NewManager("one", "chatroom", time.Minute)
	require.NoError(t, err)
	verifier, err := NewManager("two", "chatroom", time.Minute)
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken("alice", "")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m, err := NewManager("s3cret", "chatroom", time.Minute)
	require.NoError(t, err)

	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateAccessToken("alice", "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	other, err := NewManager("s3cret", "someone-else", time.Minute)
	require.NoError(t, err)
	m, err := NewManager("s3cret", "chatroom", time.Minute)
	require.NoError(t, err)

	token, err := other.GenerateAccessToken("alice", "")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsRefreshType(t *testing.T) {
	m, err := NewManager("s3cret", "", time.Minute)
	require.NoError(t, err)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Type: "refresh",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
