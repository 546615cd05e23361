package proof

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hopehaven/hopehaven/internal/donation"
)

// Handler exposes expense-proof endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	DonationID  string `json:"donation_id"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

type proofResponse struct {
	ID          string `json:"id"`
	DonationID  string `json:"donation_id"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Signature   string `json:"signature"`
	UploadedAt  string `json:"uploaded_at"`
}

func toResponse(p Proof) proofResponse {
	return proofResponse{
		ID:          p.ID,
		DonationID:  p.DonationID,
		Content:     p.Content,
		Description: p.Description,
		Signature:   p.Signature,
		UploadedAt:  p.UploadedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create uploads a proof against a donation.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Create(c.UserContext(), CreateInput{
		DonationID:  req.DonationID,
		Content:     req.Content,
		Description: req.Description,
	})
	switch {
	case err == nil:
		return c.Status(http.StatusCreated).JSON(toResponse(p))
	case errors.Is(err, donation.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "donation not found")
	default:
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
}

// List returns proofs, optionally filtered by donation.
func (h *Handler) List(c *fiber.Ctx) error {
	var (
		ps  []Proof
		err error
	)
	if donationID := c.Query("donation_id"); donationID != "" {
		ps, err = h.svc.ListByDonation(c.UserContext(), donationID)
	} else {
		ps, err = h.svc.List(c.UserContext())
	}
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]proofResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toResponse(p))
	}
	return c.Status(http.StatusOK).JSON(out)
}

type updateRequest struct {
	Description string `json:"description"`
}

// Update amends a proof's description.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.UpdateDescription(c.UserContext(), c.Params("proofId"), req.Description)
	switch {
	case err == nil:
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "updated"})
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "proof not found")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
