package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetAttackChart(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	year := handler.nowInLocation().Year()
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 9999 {
			return apiError(c, fiber.StatusBadRequest, "invalid year")
		}
		year = parsed
	}

	chart, err := handler.statsService.BuildAttackChart(user.ID, year, handler.location, handler.currentLanguage(c))
	if err != nil {
		return handler.internalError(c, "failed to build chart", err)
	}
	return c.JSON(chart)
}

func (handler *Handler) GetSymptomFrequencies(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	frequencies, err := handler.statsService.BuildSymptomFrequencies(user.ID, handler.currentLanguage(c))
	if err != nil {
		return handler.internalError(c, "failed to load symptom frequencies", err)
	}
	return c.JSON(fiber.Map{"symptoms": frequencies})
}
