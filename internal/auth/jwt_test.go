package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateVerify(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	token, err := manager.Generate("admin", RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.Subject != "admin" || claims.Role != RoleAdmin {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestGenerateEmptySubject(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	if _, err := manager.Generate("", RoleAdmin); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected malformed token error, got %v", err)
	}
}

func TestVerifyMissing(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	if _, err := manager.Verify("  "); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	if _, err := manager.Verify("not.a.token"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected malformed token error, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Generate("admin", RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected malformed token error, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	manager := NewTokenManager("secret", -time.Hour)
	token, err := manager.Generate("admin", RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	// Expired must be classified as expired, never as malformed.
	if _, err := manager.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestTokenFromHeader(t *testing.T) {
	if _, err := TokenFromHeader(""); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected missing token error, got %v", err)
	}
	if _, err := TokenFromHeader("Basic abc"); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected missing token error for wrong scheme, got %v", err)
	}
	if _, err := TokenFromHeader("Bearer"); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected missing token error for bare scheme, got %v", err)
	}
	token, err := TokenFromHeader("Bearer abc123")
	if err != nil || token != "abc123" {
		t.Fatalf("expected token, got %q err %v", token, err)
	}
}
