package auth

import (
	"testing"
	"time"

	"github.com/hlee18lee46/clearwhistlenew/internal/platform/config"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour})

	token, err := svc.GenerateAccessToken("usr_1", "org_1", "a@acme.com", true)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims.UserID != "usr_1" {
		t.Errorf("Expected usr_1, got %s", claims.UserID)
	}
	if claims.OrganizationID != "org_1" {
		t.Errorf("Expected org_1, got %s", claims.OrganizationID)
	}
	if !claims.IsAdmin {
		t.Error("Expected admin claim")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "secret-a", AccessTokenTTL: time.Hour})
	other := NewTokenService(config.JWTConfig{Secret: "secret-b", AccessTokenTTL: time.Hour})

	token, err := svc.GenerateAccessToken("usr_1", "org_1", "a@acme.com", false)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with wrong secret")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTokenTTL: -time.Minute})

	token, err := svc.GenerateAccessToken("usr_1", "org_1", "a@acme.com", false)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail for expired token")
	}
}
