package model

import "resto-backoffice/internal/access"

// Privilege is a "<module>:<action>" permission that can be granted to roles and users.
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"` // e.g. "billing:export"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g. "Export Billing"
}

// Modules known to the panel, in navigation order.
const (
	ModuleDashboard    = "dashboard"
	ModuleUsers        = "users"
	ModuleRoles        = "roles"
	ModuleReports      = "reports"
	ModuleSettings     = "settings"
	ModuleBilling      = "billing"
	ModuleInventory    = "inventory"
	ModuleReservations = "reservations"
)

var Modules = []string{
	ModuleDashboard,
	ModuleUsers,
	ModuleRoles,
	ModuleReports,
	ModuleSettings,
	ModuleBilling,
	ModuleInventory,
	ModuleReservations,
}

// Privilege codes referenced by routes and seeding.
const (
	PrivDashboardRead = "dashboard:read"

	PrivUsersRead   = "users:read"
	PrivUsersCreate = "users:create"
	PrivUsersUpdate = "users:update"
	PrivUsersDelete = "users:delete"

	PrivRolesRead   = "roles:read"
	PrivRolesCreate = "roles:create"
	PrivRolesUpdate = "roles:update"
	PrivRolesDelete = "roles:delete"

	PrivReportsRead   = "reports:read"
	PrivReportsExport = "reports:export"

	PrivSettingsRead   = "settings:read"
	PrivSettingsUpdate = "settings:update"

	PrivBillingRead   = "billing:read"
	PrivBillingCreate = "billing:create"
	PrivBillingUpdate = "billing:update"
	PrivBillingDelete = "billing:delete"
	PrivBillingExport = "billing:export"

	PrivInventoryRead   = "inventory:read"
	PrivInventoryCreate = "inventory:create"
	PrivInventoryUpdate = "inventory:update"
	PrivInventoryDelete = "inventory:delete"

	PrivReservationsRead   = "reservations:read"
	PrivReservationsCreate = "reservations:create"
	PrivReservationsUpdate = "reservations:update"
	PrivReservationsDelete = "reservations:delete"
)

// DefaultPrivileges is seeded on startup; order drives the role editor layout.
var DefaultPrivileges = []Privilege{
	{Code: PrivDashboardRead, Name: "View Dashboard"},

	{Code: PrivUsersRead, Name: "View Users"},
	{Code: PrivUsersCreate, Name: "Create User"},
	{Code: PrivUsersUpdate, Name: "Update User"},
	{Code: PrivUsersDelete, Name: "Delete User"},

	{Code: PrivRolesRead, Name: "View Roles"},
	{Code: PrivRolesCreate, Name: "Create Role"},
	{Code: PrivRolesUpdate, Name: "Update Role"},
	{Code: PrivRolesDelete, Name: "Delete Role"},

	{Code: PrivReportsRead, Name: "View Reports"},
	{Code: PrivReportsExport, Name: "Export Reports"},

	{Code: PrivSettingsRead, Name: "View Settings"},
	{Code: PrivSettingsUpdate, Name: "Update Settings"},

	{Code: PrivBillingRead, Name: "View Billing"},
	{Code: PrivBillingCreate, Name: "Create Billing Entry"},
	{Code: PrivBillingUpdate, Name: "Update Billing Entry"},
	{Code: PrivBillingDelete, Name: "Delete Billing Entry"},
	{Code: PrivBillingExport, Name: "Export Billing"},

	{Code: PrivInventoryRead, Name: "View Inventory"},
	{Code: PrivInventoryCreate, Name: "Create Inventory Item"},
	{Code: PrivInventoryUpdate, Name: "Update Inventory Item"},
	{Code: PrivInventoryDelete, Name: "Delete Inventory Item"},

	{Code: PrivReservationsRead, Name: "View Time Slots"},
	{Code: PrivReservationsCreate, Name: "Create Time Slot"},
	{Code: PrivReservationsUpdate, Name: "Update Time Slot"},
	{Code: PrivReservationsDelete, Name: "Delete Time Slot"},
}

// PrivilegeCodes returns the codes of privileges in order.
func PrivilegeCodes(privileges []Privilege) []string {
	codes := make([]string, len(privileges))
	for i, p := range privileges {
		codes[i] = p.Code
	}
	return codes
}

// PrivilegeSet converts privileges into a permission set.
func PrivilegeSet(privileges []Privilege) access.PermissionSet {
	return access.NewPermissionSet(PrivilegeCodes(privileges)...)
}
