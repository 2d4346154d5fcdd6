package auth

import (
	"testing"
	"time"

	"github.com/argentum-atelier/storefront-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "argentum-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAdminToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAdminToken(cfg, time.Now())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAdminToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Scope != "admin" {
		t.Fatalf("unexpected scope %q", claims.Scope)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseAdminTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAdminToken(cfg, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseAdminToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseAdminTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := MintAdminToken(testJWTConfig(), time.Now())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := testJWTConfig()
	other.Secret = "different"
	if _, err := ParseAdminToken(other, signed); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}
