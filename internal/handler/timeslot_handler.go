package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"resto-backoffice/internal/middleware"
	"resto-backoffice/internal/service"
)

type TimeSlotHandler struct {
	slotService service.TimeSlotService
}

func NewTimeSlotHandler(slotService service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{slotService: slotService}
}

// POST /api/v1/timeslots
func (h *TimeSlotHandler) CreateTimeSlot(c *fiber.Ctx) error {
	var req service.CreateTimeSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	slot, err := h.slotService.CreateTimeSlot(&req, middleware.CurrentActor(c))
	if err != nil {
		return fail(c, err, "Failed to create time slot")
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Time slot created successfully",
		"data":    slot.ToResponse(),
	})
}

// PUT /api/v1/timeslots/:id
func (h *TimeSlotHandler) UpdateTimeSlot(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid time slot ID"})
	}
	var req service.UpdateTimeSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	slot, err := h.slotService.UpdateTimeSlot(id, &req, middleware.CurrentActor(c))
	if err != nil {
		return fail(c, err, "Failed to update time slot")
	}
	return c.JSON(fiber.Map{
		"message": "Time slot updated successfully",
		"data":    slot.ToResponse(),
	})
}

// DELETE /api/v1/timeslots/:id
func (h *TimeSlotHandler) DeleteTimeSlot(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid time slot ID"})
	}
	if err := h.slotService.DeleteTimeSlot(id, middleware.CurrentActor(c)); err != nil {
		return fail(c, err, "Failed to delete time slot")
	}
	return c.JSON(fiber.Map{"message": "Time slot deleted successfully"})
}

// GET /api/v1/timeslots/:id
func (h *TimeSlotHandler) GetTimeSlot(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid time slot ID"})
	}
	slot, err := h.slotService.GetTimeSlotByID(id)
	if err != nil {
		return fail(c, err, "Failed to fetch time slot")
	}
	return c.JSON(slot)
}

// GetTimeSlots lists slots for a calendar view.
// GET /api/v1/timeslots?view=daily|weekly|monthly|all&date=YYYY-MM-DD
func (h *TimeSlotHandler) GetTimeSlots(c *fiber.Ctx) error {
	ref := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": service.ErrInvalidDateFormat.Error()})
		}
		// noon keeps the calendar day in any zone
		ref = parsed.Add(12 * time.Hour)
	}

	view := c.Query("view", "all")
	slots, err := h.slotService.GetTimeSlots(view, ref)
	if err != nil {
		return fail(c, err, "Failed to fetch time slots")
	}
	return c.JSON(fiber.Map{"view": view, "data": slots})
}
