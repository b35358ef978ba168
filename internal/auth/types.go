package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Role determines access level within the dashboard API.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// roleRank orders roles for floor checks. Unknown roles rank below student.
var roleRank = map[Role]int{
	RoleStudent:    1,
	RoleInstructor: 2,
	RoleAdmin:      3,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the access level of min.
// An unrecognised role never satisfies any floor.
func (r Role) AtLeast(min Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	mr, ok := roleRank[min]
	if !ok {
		return false
	}
	return rr >= mr
}

// CustomClaims embeds the standard registered claims and adds the
// role carried by every Rollcall access token.
type CustomClaims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// Sentinel errors for token validation failures.
var (
	ErrTokenInvalid = errors.New("auth: invalid token")
	ErrTokenExpired = errors.New("auth: token expired")
	ErrRoleInvalid  = errors.New("auth: invalid role claim")
)
