package auth

import (
	"testing"
	"time"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc123", "abc123", false},
		{"lowercase scheme", "bearer abc123", "abc123", false},
		{"empty header", "", "", true},
		{"missing scheme", "abc123", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"empty token", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractToken(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	jwtAuth, err := NewLocalJWTAuth("test-secret", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewLocalJWTAuth failed: %v", err)
	}

	token, err := jwtAuth.GenerateAccessToken("acct-1", "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	account, err := jwtAuth.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}
	if account.ID != "acct-1" || account.Username != "alice" {
		t.Errorf("Expected acct-1/alice, got %+v", account)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer, _ := NewLocalJWTAuth("secret-a", 15*time.Minute)
	verifier, _ := NewLocalJWTAuth("secret-b", 15*time.Minute)

	token, err := signer.GenerateAccessToken("acct-1", "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(token); err == nil {
		t.Error("Expected verification to fail under a different secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	jwtAuth, _ := NewLocalJWTAuth("test-secret", -1*time.Minute)

	token, err := jwtAuth.GenerateAccessToken("acct-1", "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := jwtAuth.VerifyAccessToken(token); err == nil {
		t.Error("Expected verification to fail for an expired token")
	}
}

func TestNewLocalJWTAuthRequiresSecret(t *testing.T) {
	if _, err := NewLocalJWTAuth("", 15*time.Minute); err == nil {
		t.Error("Expected an error for an empty secret")
	}
}
