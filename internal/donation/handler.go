package donation

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hopehaven/hopehaven/internal/middleware"
)

// Handler exposes donation endpoints. Routes are ACL-gated before these
// run; handlers only add the ownership filtering the table cannot express.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Phone   string `json:"phone"`
	Amount  int64  `json:"amount"`
	Purpose string `json:"purpose"`
}

type donationResponse struct {
	ID         string `json:"id"`
	DonorEmail string `json:"donor_email"`
	Phone      string `json:"phone,omitempty"`
	Amount     int64  `json:"amount"`
	Purpose    string `json:"purpose"`
	Status     string `json:"status"`
	Signature  string `json:"signature"`
	CreatedAt  string `json:"created_at"`
}

func toResponse(d Donation, includePhone bool) donationResponse {
	resp := donationResponse{
		ID:         d.ID,
		DonorEmail: d.DonorEmail,
		Amount:     d.Amount,
		Purpose:    d.Purpose,
		Status:     string(d.Status),
		Signature:  d.Signature,
		CreatedAt:  d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if includePhone {
		resp.Phone = d.EncryptedPhone
	}
	return resp
}

// Create records a donation for the authenticated caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	email, ok := middleware.CallerEmail(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	}

	d, err := h.svc.Create(c.UserContext(), CreateInput{
		DonorEmail: email,
		Phone:      req.Phone,
		Amount:     req.Amount,
		Purpose:    req.Purpose,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(d, false))
}

// List returns all donations for admin/staff review.
func (h *Handler) List(c *fiber.Ctx) error {
	ds, err := h.svc.ListAll(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]donationResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, toResponse(d, false))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// ListMine returns the caller's own donations, phone decrypted.
func (h *Handler) ListMine(c *fiber.Ctx) error {
	email, ok := middleware.CallerEmail(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	}
	ds, err := h.svc.ListByDonor(c.UserContext(), email)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]donationResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, toResponse(d, true))
	}
	return c.Status(http.StatusOK).JSON(out)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a donation through review (admin only by routing).
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.UpdateStatus(c.UserContext(), c.Params("donationId"), Status(req.Status))
	switch {
	case err == nil:
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": req.Status})
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "donation not found")
	default:
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
}

// Delete removes a donation (admin only by routing).
func (h *Handler) Delete(c *fiber.Ctx) error {
	err := h.svc.Delete(c.UserContext(), c.Params("donationId"))
	switch {
	case err == nil:
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "deleted"})
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "donation not found")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
