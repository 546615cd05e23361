package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hopehaven/hopehaven/internal/auth"
)

// RegisterAuthRoutes wires the two-phase signup/login endpoints and the
// public verification key.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/request-signup", h.RequestSignup)
	group.Post("/verify-signup", h.VerifySignup)
	if rateLimiter != nil {
		group.Post("/request-login", rateLimiter, h.RequestLogin)
	} else {
		group.Post("/request-login", h.RequestLogin)
	}
	group.Post("/verify-login", h.VerifyLogin)
	group.Get("/public-key", h.PublicKey)
}
