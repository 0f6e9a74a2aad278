package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateToken(userID, "admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Fatalf("role mismatch: %s", claims.Role)
	}
	if claims.Issuer != "autoeditor" {
		t.Fatalf("issuer mismatch: %s", claims.Issuer)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).GenerateToken(uuid.New(), "user")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must not validate")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := NewManager("test-secret", -time.Minute).GenerateToken(uuid.New(), "user")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := NewManager("test-secret", -time.Minute).ValidateToken(token); err == nil {
		t.Fatal("expired token must not validate")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := NewManager("test-secret", time.Hour).ValidateToken("not-a-token"); err == nil {
		t.Fatal("garbage input must not validate")
	}
}
