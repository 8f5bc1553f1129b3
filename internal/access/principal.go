package access

import "github.com/google/uuid"

// Principal is the authenticated actor of a request. Its permissions are captured
// once at login (they travel inside the JWT) and are not re-read when the role is
// edited afterwards; a new login is required to pick up role changes.
type Principal struct {
	userID      uuid.UUID
	email       string
	name        string
	roleCode    string
	permissions PermissionSet
}

// NewPrincipal copies codes into a private set so later changes to the caller's
// slice cannot leak into the session.
func NewPrincipal(userID uuid.UUID, email, name, roleCode string, codes []string) Principal {
	return Principal{
		userID:      userID,
		email:       email,
		name:        name,
		roleCode:    roleCode,
		permissions: NewPermissionSet(codes...),
	}
}

func (p Principal) UserID() uuid.UUID { return p.userID }
func (p Principal) Email() string     { return p.email }
func (p Principal) Name() string      { return p.name }
func (p Principal) RoleCode() string  { return p.roleCode }

// Can reports whether the principal holds the exact permission code.
func (p Principal) Can(required string) bool {
	return HasPermission(p.permissions, required)
}

// CanAccess reports whether the principal holds any permission of module.
func (p Principal) CanAccess(module string) bool {
	return CanAccessModule(p.permissions, module)
}

// CanAny reports whether the principal holds at least one of the codes.
func (p Principal) CanAny(codes ...string) bool {
	for _, c := range codes {
		if HasPermission(p.permissions, c) {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the held codes.
func (p Principal) Permissions() []string {
	return p.permissions.Codes()
}

// Modules maps each given module to whether the principal may see it.
func (p Principal) Modules(modules []string) map[string]bool {
	visible := make(map[string]bool, len(modules))
	for _, m := range modules {
		visible[m] = p.CanAccess(m)
	}
	return visible
}
