package model

import (
	"strings"

	"resto-backoffice/internal/access"
)

// Role is a named bundle of privileges. Editing a role does not change the
// privileges already captured in active sessions.
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Color       string      `gorm:"type:varchar(7);default:'#64748b'" json:"color"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`

	// UserCount is filled by the repository, not stored.
	UserCount int64 `gorm:"-" json:"user_count"`
}

const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleManager     = "MANAGER"
	RoleStaff       = "STAFF"
)

var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full system access with all privileges",
		Color:       "#dc2626",
	},
	{
		Code:        RoleManager,
		Name:        "Manager",
		Description: "Runs the restaurant; cannot manage users or roles",
		Color:       "#2563eb",
	},
	{
		Code:        RoleStaff,
		Name:        "Staff",
		Description: "Enters daily billing and checks stock and reservations",
		Color:       "#16a34a",
	},
}

var staffPrivileges = access.NewPermissionSet(
	PrivDashboardRead,
	PrivBillingRead,
	PrivBillingCreate,
	PrivInventoryRead,
	PrivReservationsRead,
)

// DefaultPrivilegesFor picks the seeded privileges of a default role.
func DefaultPrivilegesFor(roleCode string, all []Privilege) []Privilege {
	picked := make([]Privilege, 0, len(all))
	for _, p := range all {
		switch roleCode {
		case RoleMasterAdmin:
			picked = append(picked, p)
		case RoleManager:
			module, action, _ := strings.Cut(p.Code, ":")
			if (module == ModuleUsers || module == ModuleRoles) && action != "read" {
				continue
			}
			picked = append(picked, p)
		case RoleStaff:
			if access.HasPermission(staffPrivileges, p.Code) {
				picked = append(picked, p)
			}
		}
	}
	return picked
}

// PrivilegeSet returns the role's privileges as a permission set.
func (r *Role) PrivilegeSet() access.PermissionSet {
	return PrivilegeSet(r.Privileges)
}
