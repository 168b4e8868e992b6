package service

import (
	"errors"
	"testing"
	"time"
)

func TestJWTIssueAndParse(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.Issue("dashboard")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if token.Token == "" || token.ExpiresIn != 3600 {
		t.Fatalf("unexpected token: %+v", token)
	}

	claims, err := svc.ParseAccessToken(token.Token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.ClientName != "dashboard" || claims.Subject != "dashboard" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "persona-llm" {
		t.Fatalf("unexpected issuer: %q", claims.Issuer)
	}
}

func TestJWTIssueEmptyClientDefaultsToAnonymous(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.Issue("   ")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := svc.ParseAccessToken(token.Token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != "anonymous" {
		t.Fatalf("expected anonymous subject, got %q", claims.Subject)
	}
}

func TestJWTParseExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	svc.accessTTL = -time.Minute

	token, err := svc.Issue("dashboard")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := svc.ParseAccessToken(token.Token); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected ErrJWTExpired, got %v", err)
	}
}

func TestJWTParseWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, err := issuer.Issue("dashboard")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := verifier.ParseAccessToken(token.Token); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid, got %v", err)
	}
}

func TestJWTParseGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	for _, raw := range []string{"", "   ", "not.a.token"} {
		if _, err := svc.ParseAccessToken(raw); !errors.Is(err, ErrJWTInvalid) {
			t.Fatalf("ParseAccessToken(%q): expected ErrJWTInvalid, got %v", raw, err)
		}
	}
}

func TestJWTEmptySecretCannotIssue(t *testing.T) {
	svc := NewJWTService("", time.Hour)
	if _, err := svc.Issue("dashboard"); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid without secret, got %v", err)
	}
}
