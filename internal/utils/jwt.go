package utils // package utils provides helpers for signed form tokens and random values

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrCSRFMismatch is returned when a well-formed token was issued for a
// different session.
var ErrCSRFMismatch = errors.New("csrf token does not match session")

// csrfClaims binds a token to one session nonce.
type csrfClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// NewCSRFToken signs an HS256 JWT carrying the session nonce. The token is
// embedded in every form as a hidden field and expires after ttl.
func NewCSRFToken(secret []byte, nonce string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := csrfClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// VerifyCSRFToken checks signature, expiry and that the token was issued
// for nonce.
func VerifyCSRFToken(secret []byte, raw, nonce string) error {
	var claims csrfClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return err
	}
	if claims.Nonce == "" || claims.Nonce != nonce {
		return ErrCSRFMismatch
	}
	return nil
}

// RandomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
