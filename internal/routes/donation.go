package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hopehaven/hopehaven/internal/acl"
	"github.com/hopehaven/hopehaven/internal/donation"
	"github.com/hopehaven/hopehaven/internal/identity"
	"github.com/hopehaven/hopehaven/internal/middleware"
)

// RegisterDonationRoutes wires donation endpoints with their ACL gates.
func RegisterDonationRoutes(r fiber.Router, h *donation.Handler, idem fiber.Handler) {
	create := []fiber.Handler{
		middleware.RequireACL([]identity.Role{identity.RoleDonor, identity.RoleAdmin}, acl.ResourceDonation, acl.ActionCreate),
	}
	if idem != nil {
		create = append(create, idem)
	}
	r.Post("/donations", append(create, h.Create)...)

	r.Get("/donations",
		middleware.RequireACL([]identity.Role{identity.RoleAdmin, identity.RoleStaff}, acl.ResourceDonation, acl.ActionRead),
		h.List)
	r.Get("/donations/mine",
		middleware.RequireACL([]identity.Role{identity.RoleDonor}, acl.ResourceDonation, acl.ActionReadOwn),
		h.ListMine)
	r.Patch("/donations/:donationId/status",
		middleware.RequireACL([]identity.Role{identity.RoleAdmin}, acl.ResourceDonation, acl.ActionUpdate),
		h.UpdateStatus)
	r.Delete("/donations/:donationId",
		middleware.RequireACL([]identity.Role{identity.RoleAdmin}, acl.ResourceDonation, acl.ActionDelete),
		h.Delete)
}
