package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newCodec(t *testing.T) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec("test-secret", "HS256", 30*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return c
}

func at(ts time.Time) func() time.Time { return func() time.Time { return ts } }

func TestAccessTokenRoundTrip(t *testing.T) {
	c := newCodec(t)
	raw, exp, err := c.Issue("user-1", AccessToken, issuedAt)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(30*time.Minute), exp)

	sub, err := c.WithClock(at(issuedAt.Add(29*time.Minute))).Decode(raw, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestAccessTokenExpires(t *testing.T) {
	c := newCodec(t)
	raw, _, err := c.Issue("user-1", AccessToken, issuedAt)
	require.NoError(t, err)

	_, err = c.WithClock(at(issuedAt.Add(30*time.Minute - time.Second))).Decode(raw, AccessToken)
	assert.NoError(t, err)

	_, err = c.WithClock(at(issuedAt.Add(30*time.Minute + time.Second))).Decode(raw, AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshTokenUsesLongTTL(t *testing.T) {
	c := newCodec(t)
	raw, exp, err := c.Issue("user-1", RefreshToken, issuedAt)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(7*24*time.Hour), exp)

	sub, err := c.WithClock(at(issuedAt.Add(6*24*time.Hour))).Decode(raw, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestDecodeRejectsWrongKind(t *testing.T) {
	c := newCodec(t).WithClock(at(issuedAt))
	access, _, err := c.Issue("user-1", AccessToken, issuedAt)
	require.NoError(t, err)

	_, err = c.Decode(access, RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsForeignSecret(t *testing.T) {
	other, err := NewTokenCodec("other-secret", "HS256", time.Minute, time.Hour)
	require.NoError(t, err)
	raw, _, err := other.Issue("user-1", AccessToken, issuedAt)
	require.NoError(t, err)

	_, err = newCodec(t).WithClock(at(issuedAt)).Decode(raw, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsOtherAlgorithm(t *testing.T) {
	hs512, err := NewTokenCodec("test-secret", "HS512", time.Minute, time.Hour)
	require.NoError(t, err)
	raw, _, err := hs512.Issue("user-1", AccessToken, issuedAt)
	require.NoError(t, err)

	_, err = newCodec(t).WithClock(at(issuedAt)).Decode(raw, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsUnsignedToken(t *testing.T) {
	claims := Claims{
		Kind: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newCodec(t).WithClock(at(issuedAt)).Decode(raw, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := newCodec(t).Decode("not-a-token", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenCodecValidation(t *testing.T) {
	_, err := NewTokenCodec("", "HS256", time.Minute, time.Hour)
	assert.Error(t, err)
	_, err = NewTokenCodec("s", "RS256", time.Minute, time.Hour)
	assert.Error(t, err)
	_, err = NewTokenCodec("s", "HS256", 0, time.Hour)
	assert.Error(t, err)
}
