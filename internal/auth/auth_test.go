package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret", 0)
	id := Identity{UserID: uuid.New(), IsAdmin: true}

	token, err := m.Issue(id, time.Now())
	require.NoError(t, err)

	got, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("one", 0).Issue(Identity{UserID: uuid.New()}, time.Now())
	require.NoError(t, err)

	_, err = NewTokenManager("two", 0).Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParse_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)

	token, err := m.Issue(Identity{UserID: uuid.New()}, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: uuid.New(), IsAdmin: true}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret", 0).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	_, err := NewTokenManager("test-secret", 0).Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("12345")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("12345"), hash)

	ok, err := CheckPassword(hash, "12345")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "54321")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = HashPassword("")
	assert.Error(t, err)
}
