package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	raw, err := m.GenerateAccessToken(42, "ann@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Fatalf("user id got %d (%v), want 42", id, err)
	}
	if claims.Email != "ann@example.com" {
		t.Fatalf("email got %q", claims.Email)
	}
}

func TestAccessTokenExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager("secret", 3600*time.Second).WithClock(clock.Now)

	raw, err := m.GenerateAccessToken(1, "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	clock.t = clock.t.Add(3599 * time.Second)
	if _, err := m.VerifyAccessToken(raw); err != nil {
		t.Fatalf("token should still be valid at 3599s: %v", err)
	}

	clock.t = clock.t.Add(2 * time.Second)
	_, err = m.VerifyAccessToken(raw)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	raw, _ := NewManager("one", time.Hour).GenerateAccessToken(1, "a@example.com")

	if _, err := NewManager("two", time.Hour).VerifyAccessToken(raw); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestVerifyRejectsNonAccessToken(t *testing.T) {
	m := NewManager("secret", time.Hour)

	claims := Claims{
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.VerifyAccessToken(raw); !errors.Is(err, ErrInvalidTokenType) {
		t.Fatalf("expected ErrInvalidTokenType, got %v", err)
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	m := NewManager("secret", time.Hour)

	claims := Claims{
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.VerifyAccessToken(raw); err == nil {
		t.Fatalf("expected alg none to be rejected")
	}
}

func TestClaimsUserIDRejectsGarbage(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}

	if _, err := c.UserID(); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
