package handler

import (
	"github.com/gofiber/fiber/v2"

	"resto-backoffice/internal/middleware"
	"resto-backoffice/internal/service"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GET /api/v1/inventory
func (h *InventoryHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.service.GetAllItems()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch items"})
	}
	return c.JSON(items)
}

// POST /api/v1/inventory
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var req service.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	item, err := h.service.CreateItem(&req, middleware.CurrentActor(c))
	if err != nil {
		return fail(c, err, "Failed to create item")
	}
	return c.Status(201).JSON(item)
}

// PUT /api/v1/inventory/:id
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}
	var req service.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	item, err := h.service.UpdateItem(id, &req, middleware.CurrentActor(c))
	if err != nil {
		return fail(c, err, "Failed to update item")
	}
	return c.JSON(item)
}

// GET /api/v1/inventory/movements
func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	movements, err := h.service.GetAllMovements()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch movements"})
	}
	return c.JSON(movements)
}

// CreateMovement books stock in or out.
// POST /api/v1/inventory/movements
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	var req service.MovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.service.RecordMovement(&req, middleware.CurrentActor(c))
	if err != nil {
		return fail(c, err, "Failed to record movement")
	}
	return c.Status(201).JSON(movement)
}
