package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"resto-backoffice/internal/middleware"
	"resto-backoffice/internal/service"
)

type BillingHandler struct {
	billingService service.BillingService
}

func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// GetBillings lists entries, newest first. Query: from, to (YYYY-MM-DD).
// GET /api/v1/billings
func (h *BillingHandler) GetBillings(c *fiber.Ctx) error {
	billings, err := h.billingService.ListBillings(c.Query("from"), c.Query("to"))
	if err != nil {
		return fail(c, err, "Failed to fetch billings")
	}
	return c.JSON(fiber.Map{"data": billings})
}

// GET /api/v1/billings/:id
func (h *BillingHandler) GetBilling(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid billing ID"})
	}
	billing, err := h.billingService.GetBilling(id)
	if err != nil {
		return fail(c, err, "Failed to fetch billing")
	}
	return c.JSON(billing)
}

// POST /api/v1/billings
func (h *BillingHandler) CreateBilling(c *fiber.Ctx) error {
	var req service.BillingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	billing, err := h.billingService.CreateBilling(&req, middleware.CurrentActor(c))
	if err != nil {
		return fail(c, err, "Failed to create billing")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Billing created successfully", "data": billing})
}

// PUT /api/v1/billings/:id
func (h *BillingHandler) UpdateBilling(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid billing ID"})
	}
	var req service.BillingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	billing, err := h.billingService.UpdateBilling(id, &req, middleware.CurrentActor(c))
	if err != nil {
		return fail(c, err, "Failed to update billing")
	}
	return c.JSON(fiber.Map{"message": "Billing updated successfully", "data": billing})
}

// DELETE /api/v1/billings/:id
func (h *BillingHandler) DeleteBilling(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid billing ID"})
	}
	if err := h.billingService.DeleteBilling(id, middleware.CurrentActor(c)); err != nil {
		return fail(c, err, "Failed to delete billing")
	}
	return c.JSON(fiber.Map{"message": "Billing deleted successfully"})
}

// ImportBillings takes {"data": [...]} as produced by the spreadsheet export.
// POST /api/v1/billings/import
func (h *BillingHandler) ImportBillings(c *fiber.Ctx) error {
	var req struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.billingService.ImportBillings(req.Data, middleware.CurrentActor(c))
	if err != nil {
		return fail(c, err, "Failed to import billings")
	}
	return c.JSON(result)
}

// GetReport returns buckets, totals and chart series.
// GET /api/v1/billings/report?group=day|week|month|year|overall&from=&to=
func (h *BillingHandler) GetReport(c *fiber.Ctx) error {
	rep, err := h.billingService.Report(c.Query("group"), c.Query("from"), c.Query("to"))
	if err != nil {
		return fail(c, err, "Failed to build report")
	}
	return c.JSON(rep)
}

// ExportCSV downloads the report (or raw entries with group=raw) as CSV.
// GET /api/v1/billings/export
func (h *BillingHandler) ExportCSV(c *fiber.Ctx) error {
	export, err := h.billingService.ExportCSV(c.Query("group", "day"), c.Query("from"), c.Query("to"))
	if err != nil {
		return fail(c, err, "Failed to export billings")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	return c.SendString(export.Content)
}
