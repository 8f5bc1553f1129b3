package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"resto-backoffice/internal/service"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// maxMovementDays bounds the stock movement chart window.
const maxMovementDays = 90

// GetStockMovement feeds the inbound/outbound chart on the dashboard.
// GET /api/v1/dashboard/stock-movement?days=7 (1-90, default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}
	if days > maxMovementDays {
		days = maxMovementDays
	}

	data, err := h.service.GetStockMovement(days)
	if err != nil {
		return fail(c, err, "Failed to fetch stock movement")
	}
	return c.JSON(fiber.Map{"period": days, "data": data})
}

// GetDashboardStats returns the overview cards: till totals for today and the
// current month in the business time zone, plus item count, low stock count
// and stock valuation.
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return fail(c, err, "Failed to fetch dashboard stats")
	}
	return c.JSON(stats)
}
