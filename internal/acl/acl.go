// Package acl holds the static role→resource→action permission table and
// the per-request authorization check. Own-scoped actions (read_own,
// update_own) are plain tokens here: the table says a donor may read_own
// donations, but selecting which records are "own" is the calling
// service's job, filtered by the authenticated identity.
package acl

import (
	"errors"

	"github.com/hopehaven/hopehaven/internal/identity"
)

// Resource is a protected object class.
type Resource string

const (
	ResourceDonation     Resource = "donation"
	ResourceProfile      Resource = "profile"
	ResourceExpenseProof Resource = "expense_proof"
)

// Action is an operation on a resource.
type Action string

const (
	ActionCreate    Action = "create"
	ActionRead      Action = "read"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionReadOwn   Action = "read_own"
	ActionUpdateOwn Action = "update_own"
)

var (
	// ErrRoleForbidden is the coarse rejection: the caller's role is not in
	// the route's allowed set.
	ErrRoleForbidden = errors.New("acl: insufficient role")
	// ErrPermissionForbidden is the fine rejection: the role may enter the
	// route but lacks the resource/action permission.
	ErrPermissionForbidden = errors.New("acl: action not permitted on resource")
)

type actionSet map[Action]struct{}

func actions(as ...Action) actionSet {
	set := make(actionSet, len(as))
	for _, a := range as {
		set[a] = struct{}{}
	}
	return set
}

// permissions is fixed at process start. Any role/resource/action
// combination absent from it is denied.
var permissions = map[identity.Role]map[Resource]actionSet{
	identity.RoleAdmin: {
		ResourceDonation:     actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		ResourceProfile:      actions(ActionRead, ActionUpdate, ActionDelete),
		ResourceExpenseProof: actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
	},
	identity.RoleDonor: {
		ResourceDonation:     actions(ActionCreate, ActionReadOwn),
		ResourceProfile:      actions(ActionReadOwn, ActionUpdateOwn),
		ResourceExpenseProof: actions(ActionRead),
	},
	identity.RoleStaff: {
		ResourceDonation:     actions(ActionRead),
		ResourceProfile:      actions(ActionReadOwn),
		ResourceExpenseProof: actions(ActionCreate, ActionRead, ActionUpdate),
	},
}

// Allowed reports whether role may perform action on resource.
func Allowed(role identity.Role, resource Resource, action Action) bool {
	byResource, ok := permissions[role]
	if !ok {
		return false
	}
	set, ok := byResource[resource]
	if !ok {
		return false
	}
	_, ok = set[action]
	return ok
}

// Authorize evaluates the coarse role check, then (when resource and
// action are set) the fine permission check. Absence anywhere is a
// denial, never a default-allow.
func Authorize(role identity.Role, allowed []identity.Role, resource Resource, action Action) error {
	inSet := false
	for _, r := range allowed {
		if r == role {
			inSet = true
			break
		}
	}
	if !inSet {
		return ErrRoleForbidden
	}

	if resource == "" || action == "" {
		return nil
	}
	if !Allowed(role, resource, action) {
		return ErrPermissionForbidden
	}
	return nil
}
