package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resto-backoffice/internal/middleware"
	"resto-backoffice/internal/service"
	"resto-backoffice/pkg/jwt"
	"resto-backoffice/pkg/validator"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{validator.ErrValidation, fiber.StatusBadRequest},
	{service.ErrInvalidGroup, fiber.StatusBadRequest},
	{service.ErrInvalidDateRange, fiber.StatusBadRequest},
	{service.ErrEmptyImport, fiber.StatusBadRequest},
	{service.ErrUnknownPrivilege, fiber.StatusBadRequest},
	{service.ErrDeleteSelf, fiber.StatusBadRequest},
	{service.ErrWrongPassword, fiber.StatusBadRequest},
	{service.ErrInsufficientStock, fiber.StatusBadRequest},
	{service.ErrInvalidTimeFormat, fiber.StatusBadRequest},
	{service.ErrInvalidDateFormat, fiber.StatusBadRequest},
	{service.ErrEndDateBeforeStart, fiber.StatusBadRequest},
	{service.ErrStartDateInPast, fiber.StatusBadRequest},
	{service.ErrSameTimeStartEnd, fiber.StatusBadRequest},
	{service.ErrInvalidViewType, fiber.StatusBadRequest},

	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{service.ErrUserInactive, fiber.StatusUnauthorized},
	{service.ErrSessionTimeout, fiber.StatusUnauthorized},
	{service.ErrSessionReplaced, fiber.StatusUnauthorized},
	{jwt.ErrInvalidToken, fiber.StatusUnauthorized},
	{jwt.ErrMissingToken, fiber.StatusUnauthorized},

	{service.ErrRoleProtected, fiber.StatusForbidden},

	{service.ErrUserNotFound, fiber.StatusNotFound},
	{service.ErrRoleNotFound, fiber.StatusNotFound},
	{service.ErrBillingNotFound, fiber.StatusNotFound},
	{service.ErrItemNotFound, fiber.StatusNotFound},
	{service.ErrTimeSlotNotFound, fiber.StatusNotFound},

	{service.ErrEmailExists, fiber.StatusConflict},
	{service.ErrRoleCodeExists, fiber.StatusConflict},
	{service.ErrRoleInUse, fiber.StatusConflict},
	{service.ErrSKUExists, fiber.StatusConflict},
	{service.ErrTimeSlotConflict, fiber.StatusConflict},
}

func errorStatus(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return fiber.StatusInternalServerError
}

// fail writes err as {"error": ...}. Unknown errors become a 500 with the
// fallback message so database details do not leak; the cause goes to the
// request log.
func fail(c *fiber.Ctx, err error, fallback string) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		middleware.SetError(c, err)
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}
