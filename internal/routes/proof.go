package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hopehaven/hopehaven/internal/acl"
	"github.com/hopehaven/hopehaven/internal/identity"
	"github.com/hopehaven/hopehaven/internal/middleware"
	"github.com/hopehaven/hopehaven/internal/proof"
)

// RegisterProofRoutes wires expense-proof endpoints with their ACL gates.
func RegisterProofRoutes(r fiber.Router, h *proof.Handler, idem fiber.Handler) {
	create := []fiber.Handler{
		middleware.RequireACL([]identity.Role{identity.RoleStaff, identity.RoleAdmin}, acl.ResourceExpenseProof, acl.ActionCreate),
	}
	if idem != nil {
		create = append(create, idem)
	}
	r.Post("/proofs", append(create, h.Create)...)

	allRoles := []identity.Role{identity.RoleAdmin, identity.RoleDonor, identity.RoleStaff}
	r.Get("/proofs",
		middleware.RequireACL(allRoles, acl.ResourceExpenseProof, acl.ActionRead),
		h.List)
	r.Patch("/proofs/:proofId",
		middleware.RequireACL([]identity.Role{identity.RoleStaff, identity.RoleAdmin}, acl.ResourceExpenseProof, acl.ActionUpdate),
		h.Update)
}
