package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hopehaven/hopehaven/internal/acl"
	"github.com/hopehaven/hopehaven/internal/identity"
)

// RequireACL gates a route on the coarse allowed-role set and, when
// resource and action are provided, the fine permission table. Must run
// after Authn.
func RequireACL(allowed []identity.Role, resource acl.Resource, action acl.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := CallerRole(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
		}

		err := acl.Authorize(role, allowed, resource, action)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, acl.ErrRoleForbidden):
			return fiber.NewError(http.StatusForbidden, "access forbidden: insufficient role")
		case errors.Is(err, acl.ErrPermissionForbidden):
			return fiber.NewError(http.StatusForbidden, "access forbidden: action not permitted")
		default:
			return fiber.NewError(http.StatusForbidden, err.Error())
		}
	}
}
