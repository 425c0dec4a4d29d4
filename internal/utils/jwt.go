package utils // package utils provides helper functions for token creation and hashing

import (
	"errors" // errors defines the token failure sentinels
	"fmt"    // fmt formats construction errors
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// TokenKind distinguishes short-lived access tokens from long-lived
// refresh tokens.  The kind is embedded in the token so one cannot be
// used in place of the other.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures, unexpected
	// algorithms, missing subjects and tokens of the wrong kind.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token's exp lies in the past.
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the payload of every token issued by TokenCodec.  Subject
// carries the user id; Kind carries the TokenKind.
type Claims struct {
	Kind TokenKind `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies identity tokens.  It is built once from
// configuration at startup and never mutated, so it is safe to share
// between concurrent requests.
type TokenCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec builds a codec for an HMAC algorithm (HS256, HS384 or
// HS512).  Asymmetric algorithms are rejected because the service only
// holds a shared secret.
func NewTokenCodec(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token codec: empty secret")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("token codec: unsupported algorithm %q", algorithm)
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token codec: lifetimes must be positive")
	}
	return &TokenCodec{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// WithClock returns a copy of c that reads the current time from now when
// validating expiry.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL returns the lifetime configured for kind.
func (c *TokenCodec) TTL(kind TokenKind) time.Duration {
	if kind == RefreshToken {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token for subject that expires at now + TTL(kind).  It
// returns the serialized token and its expiry.
func (c *TokenCodec) Issue(subject string, kind TokenKind, now time.Time) (string, time.Time, error) {
	if kind != AccessToken && kind != RefreshToken {
		return "", time.Time{}, fmt.Errorf("token codec: unknown kind %q", kind)
	}
	now = now.UTC()
	exp := now.Add(c.TTL(kind))
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Decode verifies signature, algorithm, expiry and kind and returns the
// subject.  Failures are ErrExpiredToken or ErrInvalidToken; callers that
// make authorization decisions should not reveal which one occurred.
func (c *TokenCodec) Decode(raw string, kind TokenKind) (string, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !tok.Valid || claims.Subject == "" || claims.Kind != kind {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
