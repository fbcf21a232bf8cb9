package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/anxiolytic/internal/services"
)

// GetCalendar returns the month grid. month defaults to the current month and
// selected to today, both in the server location.
func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := handler.nowInLocation()
	month := now
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := services.ParseMonth(raw, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid month")
		}
		month = parsed
	}
	selected := now
	if raw := strings.TrimSpace(c.Query("selected")); raw != "" {
		parsed, err := services.ParseDayDate(raw, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid date")
		}
		selected = parsed
	}

	view, err := handler.dashboardService.BuildCalendar(user.ID, month, selected, now, handler.location, handler.currentLanguage(c))
	if errors.Is(err, services.ErrInvalidMonth) {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}
	if err != nil {
		return handler.internalError(c, "failed to build calendar", err)
	}
	return c.JSON(view)
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := services.ParseDayDate(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	attacks, err := handler.attackService.ListForDay(user.ID, day, handler.location)
	if err != nil {
		return handler.internalError(c, "failed to load day", err)
	}
	return c.JSON(fiber.Map{
		"date":    day.Format(services.DayLayout),
		"attacks": handler.newAttackResponses(attacks, handler.currentLanguage(c)),
	})
}

func (handler *Handler) GetTracker(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := handler.dashboardService.Tracker(*user, handler.nowInLocation(), handler.location)
	if err != nil {
		return handler.internalError(c, "failed to build tracker", err)
	}
	return c.JSON(summary)
}
