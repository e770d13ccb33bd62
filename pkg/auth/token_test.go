package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/config"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "shirtshop",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	sessionID := uuid.New()
	productID := uuid.New()

	token, err := MintSessionToken(cfg, now, SessionTokenPayload{SessionID: sessionID, ProductID: productID})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if claims.SessionID != sessionID {
		t.Fatalf("expected session_id %s, got %s", sessionID, claims.SessionID)
	}
	if claims.ProductID != productID {
		t.Fatalf("expected product_id %s, got %s", productID, claims.ProductID)
	}
	if claims.Subject != sessionID.String() {
		t.Fatalf("expected subject %s, got %s", sessionID, claims.Subject)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(30 * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt.UTC())
	}
}

func TestParseSessionTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{SessionID: uuid.New()})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestParseSessionTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now().Add(-2*time.Hour), SessionTokenPayload{SessionID: uuid.New()})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}
	_, err = ParseSessionToken(cfg, token)
	if err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestMintSessionTokenValidatesInput(t *testing.T) {
	cfg := testJWTConfig()
	if _, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{}); err == nil {
		t.Fatalf("expected error without session id")
	}
	cfg.Secret = ""
	if _, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{SessionID: uuid.New()}); err == nil {
		t.Fatalf("expected error without secret")
	}
}
