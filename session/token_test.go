package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer(testKey, "library", 30*time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return now }

	raw, claims, err := iss.Issue(Identity{Username: "test", Email: "test@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, now.Add(30*time.Minute), claims.ExpiresAt.Time)

	got, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "test", got.Subject)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, claims.ID, got.ID)
	assert.Equal(t, "library", got.Issuer)
}

func TestParseRejects(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	iss := NewIssuer(testKey, "library", 30*time.Minute)
	iss.now = func() time.Time { return now }
	raw, _, err := iss.Issue(Identity{Username: "test"})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := NewIssuer(testKey, "library", 30*time.Minute)
		later.now = func() time.Time { return now.Add(31 * time.Minute) }
		_, err := later.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewIssuer([]byte("another-key-another-key-another!!"), "library", time.Minute)
		other.now = iss.now
		_, err := other.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewIssuer(testKey, "someone-else", time.Minute)
		other.now = iss.now
		_, err := other.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		c := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "test", ID: "x", Issuer: "library",
			Audience:  jwt.ClaimStrings{"library"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
		s, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = iss.Parse(s)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("no expiry", func(t *testing.T) {
		c := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "test", ID: "x", Issuer: "library",
			Audience: jwt.ClaimStrings{"library"},
		}}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(testKey)
		require.NoError(t, err)
		_, err = iss.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
