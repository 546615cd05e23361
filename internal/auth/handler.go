package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hopehaven/hopehaven/internal/challenge"
	"github.com/hopehaven/hopehaven/internal/identity"
)

// Handler exposes the two-phase signup/login endpoints and the public
// verification key.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// RequestSignup accepts a candidate registration and triggers the signup
// challenge.
func (h *Handler) RequestSignup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Role == "" {
		req.Role = string(identity.RoleDonor)
	}
	if err := h.svc.RequestSignup(c.UserContext(), req.Email, req.Password, req.Role); err != nil {
		if errors.Is(err, identity.ErrDuplicateIdentity) {
			return fiber.NewError(http.StatusConflict, "email already registered")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"message": "verification code sent"})
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifySignup completes registration with the one-time code.
func (h *Handler) VerifySignup(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	ident, err := h.svc.VerifySignup(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return challengeError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user_id": ident.ID,
		"email":   ident.Email,
		"role":    ident.Role,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RequestLogin performs the password phase and triggers the login
// challenge.
func (h *Handler) RequestLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.RequestLogin(c.UserContext(), req.Email, req.Password)
	switch {
	case err == nil:
		return c.Status(http.StatusAccepted).JSON(fiber.Map{"message": "verification code sent"})
	case errors.Is(err, identity.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "unknown email")
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Role        string `json:"role"`
}

// VerifyLogin completes authentication and returns the session token.
func (h *Handler) VerifyLogin(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	token, err := h.svc.VerifyLogin(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return challengeError(err)
	}
	return c.Status(http.StatusOK).JSON(tokenResponse{
		AccessToken: token.Value,
		ExpiresIn:   token.ExpiresIn,
		Role:        string(token.Role),
	})
}

// PublicKey serves the PEM verification key for donation and proof
// signatures.
func (h *Handler) PublicKey(c *fiber.Ctx) error {
	pem, err := h.svc.PublicKeyPEM()
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"public_key": pem})
}

func challengeError(err error) error {
	switch {
	case errors.Is(err, challenge.ErrNoChallenge):
		return fiber.NewError(http.StatusBadRequest, "no pending verification")
	case errors.Is(err, challenge.ErrKindMismatch):
		return fiber.NewError(http.StatusBadRequest, "verification kind mismatch")
	case errors.Is(err, challenge.ErrInvalidCode):
		return fiber.NewError(http.StatusBadRequest, "invalid code")
	case errors.Is(err, identity.ErrDuplicateIdentity):
		return fiber.NewError(http.StatusConflict, "email already registered")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
