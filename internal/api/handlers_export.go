package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/anxiolytic/internal/services"
)

func (handler *Handler) ExportICS(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload, err := handler.exportService.BuildICS(user.ID, handler.currentLanguage(c), handler.now(), handler.location)
	if err != nil {
		return handler.internalError(c, "failed to export calendar", err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="anxiolytic-attacks.ics"`)
	return c.Send(payload)
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, err := services.ParseOptionalDayRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}
	document, err := handler.exportService.BuildJSON(user.ID, from, to, handler.now(), handler.location)
	if err != nil {
		return handler.internalError(c, "failed to export data", err)
	}

	filename := fmt.Sprintf("anxiolytic-export-%s.json", handler.nowInLocation().Format(services.DayLayout))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.JSON(document)
}
