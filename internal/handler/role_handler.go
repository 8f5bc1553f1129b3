package handler

import (
	"github.com/gofiber/fiber/v2"

	"resto-backoffice/internal/service"
)

type RoleHandler struct {
	roleService service.RoleService
}

func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func roleID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// GetRoles returns all roles with their user counts
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roleService.GetAllRoles(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch roles"})
	}
	return c.JSON(roles)
}

// POST /api/v1/roles
func (h *RoleHandler) CreateRole(c *fiber.Ctx) error {
	var req service.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	role, err := h.roleService.CreateRole(c.UserContext(), &req)
	if err != nil {
		return fail(c, err, "Failed to create role")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Role created successfully", "data": role})
}

// PUT /api/v1/roles/:id
func (h *RoleHandler) UpdateRole(c *fiber.Ctx) error {
	id, ok := roleID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid role ID"})
	}
	var req service.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	role, err := h.roleService.UpdateRole(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err, "Failed to update role")
	}
	return c.JSON(fiber.Map{"message": "Role updated successfully", "data": role})
}

// DELETE /api/v1/roles/:id
func (h *RoleHandler) DeleteRole(c *fiber.Ctx) error {
	id, ok := roleID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid role ID"})
	}
	if err := h.roleService.DeleteRole(c.UserContext(), id); err != nil {
		return fail(c, err, "Failed to delete role")
	}
	return c.JSON(fiber.Map{"message": "Role deleted successfully"})
}

// GetPrivilegeMatrix returns the role editor grid
// GET /api/v1/roles/:id/privileges
func (h *RoleHandler) GetPrivilegeMatrix(c *fiber.Ctx) error {
	id, ok := roleID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid role ID"})
	}
	matrix, err := h.roleService.GetPrivilegeMatrix(id)
	if err != nil {
		return fail(c, err, "Failed to build privilege matrix")
	}
	return c.JSON(matrix)
}

// GET /api/v1/privileges
func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.roleService.GetAllPrivileges()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
	}
	return c.JSON(privileges)
}

// GET /api/v1/privileges/grouped
func (h *RoleHandler) GetGroupedPrivileges(c *fiber.Ctx) error {
	groups, err := h.roleService.GetGroupedPrivileges()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
	}
	return c.JSON(groups)
}
