package auth

import (
	"testing"
	"time"
)

func TestIssueAndParseRoundtrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := Issue("u1", "amy", time.Hour)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	claims, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT() failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "amy" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestParseJWTRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := Issue("u1", "amy", -time.Minute)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	if _, err := ParseJWT(token); err == nil {
		t.Error("ParseJWT() should reject an expired token")
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := Issue("u1", "amy", time.Hour)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	t.Setenv("JWT_SECRET", "second-secret")
	if _, err := ParseJWT(token); err == nil {
		t.Error("ParseJWT() should reject a token signed with another secret")
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Error("ParseJWT() should reject malformed input")
	}
}
