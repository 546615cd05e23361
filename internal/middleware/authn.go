package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hopehaven/hopehaven/internal/auth"
	"github.com/hopehaven/hopehaven/internal/identity"
)

// Locals keys populated by Authn for downstream handlers.
const (
	LocalIdentityID = "identity_id"
	LocalEmail      = "email"
	LocalRole       = "role"
)

// Authn validates the bearer session token and stores the caller's
// identity in request locals. Expiry is checked before any role or
// permission evaluation and surfaces as its own rejection.
func Authn(svc *auth.Service, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		claims, err := svc.ParseToken(tokenStr)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return fiber.NewError(http.StatusUnauthorized, "token expired")
			}
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		ident, err := repo.FindByID(c.UserContext(), claims.Subject)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "unknown identity")
		}

		c.Locals(LocalIdentityID, ident.ID)
		c.Locals(LocalEmail, ident.Email)
		c.Locals(LocalRole, ident.Role)
		return c.Next()
	}
}

// CallerRole returns the authenticated role stored by Authn.
func CallerRole(c *fiber.Ctx) (identity.Role, bool) {
	role, ok := c.Locals(LocalRole).(identity.Role)
	return role, ok
}

// CallerEmail returns the authenticated email stored by Authn.
func CallerEmail(c *fiber.Ctx) (string, bool) {
	email, ok := c.Locals(LocalEmail).(string)
	return email, ok && email != ""
}
