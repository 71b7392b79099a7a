// ABOUTME: Unit tests for JWT token issuance and verification
// ABOUTME: Tests valid tokens, invalid tokens, expired tokens, and foreign keys

package auth

import (
	"errors"
	"testing"
	"time"
)

// tokenTestSecret is a 32-byte secret that meets MinSecretLength requirement.
var tokenTestSecret = []byte("token-codec-test-secret-32-bytes")

func TestJWTCodec_ValidToken(t *testing.T) {
	codec, err := NewJWTCodec(tokenTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTCodec() error = %v", err)
	}

	userID := "user-123"
	token, err := codec.Issue(userID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	gotID, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if gotID != userID {
		t.Errorf("Verify() = %q, want %q", gotID, userID)
	}
}

func TestJWTCodec_ShortSecret(t *testing.T) {
	if _, err := NewJWTCodec([]byte("too-short"), time.Hour); err == nil {
		t.Error("NewJWTCodec() should reject secrets shorter than MinSecretLength")
	}
}

func TestJWTCodec_MalformedToken(t *testing.T) {
	codec, _ := NewJWTCodec(tokenTestSecret, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not-a-jwt-token"},
		{"malformed JWT", "header.payload.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			if err == nil {
				t.Fatal("Verify() should have returned an error")
			}
			if !errors.Is(err, ErrMalformedToken) {
				t.Errorf("Verify() error = %v, want ErrMalformedToken", err)
			}
		})
	}
}

func TestJWTCodec_ForeignKey(t *testing.T) {
	codec, _ := NewJWTCodec(tokenTestSecret, time.Hour)

	other, _ := NewJWTCodec([]byte("a-different-signing-secret-32-by"), time.Hour)
	token, err := other.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = codec.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTCodec_ExpiredToken(t *testing.T) {
	// Negative lifetime produces a token that expired before it was issued
	codec, _ := NewJWTCodec(tokenTestSecret, -time.Hour)

	token, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	verifier, _ := NewJWTCodec(tokenTestSecret, time.Hour)
	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTCodec_MissingSubClaim(t *testing.T) {
	codec, _ := NewJWTCodec(tokenTestSecret, time.Hour)

	token, err := codec.Issue("")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = codec.Verify(token)
	if !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Verify() error = %v, want ErrMissingClaim", err)
	}
}
