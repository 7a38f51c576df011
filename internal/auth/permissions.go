package auth

import (
	"fmt"

	"github.com/stayware/ticketdesk/internal/model"
)

// Wildcard grants every action on a resource.
const Wildcard = "*"

// Well-known role names used by the primary-role projection.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleDefault    = "staff"
)

// Catalog of valid permission targets.  Role edits validate against this
// at write time so evaluation stays a plain map lookup.
var (
	KnownResources = []string{"tickets", "hotels", "comments", "users", "roles"}
	KnownActions   = []string{"read", "create", "update", "delete", Wildcard}
)

// HasPermission reports whether any of the roles grants action on
// resource.  Deny by default: an empty role set, an unknown resource or a
// missing action all evaluate to false.
func HasPermission(roles []model.Role, resource, action string) bool {
	for _, role := range roles {
		actions, ok := role.Permissions[resource]
		if !ok {
			continue
		}
		for _, a := range actions {
			if a == action || a == Wildcard {
				return true
			}
		}
	}
	return false
}

// PrimaryRole projects a role set onto the single legacy role label some
// API consumers still expect.  The richer role set stays authoritative;
// this is applied at serialization boundaries only.  Tie-break order:
// super_admin, admin, manager, then the first assigned role, then the
// default role for users with no assignments.
func PrimaryRole(roleNames []string) string {
	for _, want := range []string{RoleSuperAdmin, RoleAdmin, RoleManager} {
		for _, name := range roleNames {
			if name == want {
				return want
			}
		}
	}
	if len(roleNames) > 0 {
		return roleNames[0]
	}
	return RoleDefault
}

// ValidatePermissions checks a permission mapping against the catalog.
// Used when roles are created or updated so malformed resource or action
// names never reach the evaluator.
func ValidatePermissions(perms map[string][]string) error {
	for resource, actions := range perms {
		if !contains(KnownResources, resource) {
			return fmt.Errorf("%w: unknown resource %q", ErrValidation, resource)
		}
		if len(actions) == 0 {
			return fmt.Errorf("%w: resource %q has no actions", ErrValidation, resource)
		}
		for _, action := range actions {
			if !contains(KnownActions, action) {
				return fmt.Errorf("%w: unknown action %q on %q", ErrValidation, action, resource)
			}
		}
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
