package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultAccessTokenTTL is used when the caller passes a non-positive TTL.
const DefaultAccessTokenTTL = 15 * time.Minute

// GenerateAccessToken creates a signed HS256 access token for the given
// subject and role. Used by operator tooling and tests; the service itself
// never issues tokens.
func GenerateAccessToken(secret []byte, subject string, role Role, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("auth: empty signing secret")
	}
	if subject == "" {
		return "", errors.New("auth: empty subject")
	}
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrRoleInvalid, role)
	}
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	now := time.Now()
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates the signature and registered claims of an access
// token and returns its claims. Only HS256 is accepted; tokens with a
// missing subject or unknown role are rejected.
func ParseToken(secret []byte, tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrRoleInvalid, claims.Role)
	}
	return claims, nil
}
