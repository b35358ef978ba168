package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("rollcall-test-secret-at-least-32-bytes!!")

func TestGenerateAndParseToken(t *testing.T) {
	signed, err := GenerateAccessToken(testSecret, "instructor-42", RoleInstructor, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ParseToken(testSecret, signed)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "instructor-42" {
		t.Errorf("subject = %q, want instructor-42", claims.Subject)
	}
	if claims.Role != RoleInstructor {
		t.Errorf("role = %q, want instructor", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected non-empty jti")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	signed, err := GenerateAccessToken(testSecret, "admin-1", RoleAdmin, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ParseToken([]byte("a-completely-different-signing-key!!!!!!"), signed); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	now := time.Now()
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student-9",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			ID:        "expired-token",
		},
		Role: RoleStudent,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := ParseToken(testSecret, signed); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenRejectsUnsignedAlg(t *testing.T) {
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RoleAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := ParseToken(testSecret, signed); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for alg=none, got %v", err)
	}
}

func TestParseTokenUnknownRole(t *testing.T) {
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "someone",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: Role("superuser"),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := ParseToken(testSecret, signed); !errors.Is(err, ErrRoleInvalid) {
		t.Errorf("expected ErrRoleInvalid, got %v", err)
	}
}

func TestGenerateAccessTokenValidation(t *testing.T) {
	if _, err := GenerateAccessToken(nil, "x", RoleStudent, time.Minute); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := GenerateAccessToken(testSecret, "", RoleStudent, time.Minute); err == nil {
		t.Error("expected error for empty subject")
	}
	if _, err := GenerateAccessToken(testSecret, "x", Role("root"), time.Minute); !errors.Is(err, ErrRoleInvalid) {
		t.Errorf("expected ErrRoleInvalid, got %v", err)
	}
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleStudent, RoleStudent, true},
		{RoleStudent, RoleInstructor, false},
		{RoleInstructor, RoleInstructor, true},
		{RoleInstructor, RoleAdmin, false},
		{RoleAdmin, RoleInstructor, true},
		{RoleAdmin, RoleAdmin, true},
		{Role("ghost"), RoleStudent, false},
	}
	for _, tt := range tests {
		if got := tt.role.AtLeast(tt.min); got != tt.want {
			t.Errorf("%q.AtLeast(%q) = %v, want %v", tt.role, tt.min, got, tt.want)
		}
	}
}
