package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestCSRFToken(t *testing.T) {
	tok, err := NewCSRFToken(secret, "nonce-a", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := VerifyCSRFToken(secret, tok, "nonce-a"); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
	if err := VerifyCSRFToken(secret, tok, "nonce-b"); !errors.Is(err, ErrCSRFMismatch) {
		t.Errorf("token for another session: want ErrCSRFMismatch, got %v", err)
	}
	if err := VerifyCSRFToken([]byte("another-secret-another-secret-xx"), tok, "nonce-a"); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Errorf("wrong secret: want signature error, got %v", err)
	}
	if err := VerifyCSRFToken(secret, "", "nonce-a"); err == nil {
		t.Error("empty token accepted")
	}
}

func TestCSRFTokenExpired(t *testing.T) {
	tok, err := NewCSRFToken(secret, "nonce", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := VerifyCSRFToken(secret, tok, "nonce"); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(16)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := RandomHex(16)
	if len(a) != 32 || a == b {
		t.Fatalf("unexpected values %q %q", a, b)
	}
}
