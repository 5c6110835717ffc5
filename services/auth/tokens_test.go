package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"reelhouse/models"
)

func TestIssueAndVerify(t *testing.T) {
	tokens, err := NewTokens("s3cret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	token, exp, err := tokens.Issue(&models.User{ID: "user-1", Role: models.RoleReviewer})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected expiry in the future, got %v", exp)
	}

	id, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id != "user-1" {
		t.Fatalf("expected user-1, got %q", id)
	}
}

func TestVerifyRejects(t *testing.T) {
	tokens, _ := NewTokens("s3cret", time.Hour)
	other, _ := NewTokens("different", time.Hour)
	token, _, _ := other.Issue(&models.User{ID: "user-1"})

	expired, _ := NewTokens("s3cret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue(&models.User{ID: "user-1"})

	cases := map[string]string{
		"wrong secret": token,
		"expired":      old,
		"garbage":      "not-a-token",
		"empty":        "",
	}
	for name, tok := range cases {
		if _, err := tokens.Verify(tok); !errors.Is(err, models.ErrUnauthorized) {
			t.Errorf("%s: expected unauthorized, got %v", name, err)
		}
	}
}

func TestNewTokensRequiresSecret(t *testing.T) {
	if _, err := NewTokens("  ", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input for short password, got %v", err)
	}
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1)); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input for password over %d bytes, got %v", MaxPasswordBytes, err)
	}
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Fatalf("expected %d byte password to hash, got %v", MaxPasswordBytes, err)
	}

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Fatalf("expected mismatch")
	}
}
