package identity

import (
	"fmt"
	"strings"
	"time"
)

// Role is the coarse authorization level of an identity.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleDonor Role = "donor"
	RoleStaff Role = "staff"
)

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleDonor:
		return RoleDonor, nil
	case RoleStaff:
		return RoleStaff, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Identity represents a registered principal. PasswordHash is the only
// credential form ever stored.
type Identity struct {
	ID           string
	Email        string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
}
