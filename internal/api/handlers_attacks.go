package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/anxiolytic/internal/models"
	"github.com/terraincognita07/anxiolytic/internal/services"
)

type attackInput struct {
	OccurredAt string   `json:"occurred_at" form:"occurred_at"`
	Answers    []string `json:"answers" form:"answers"`
	Cause      string   `json:"cause" form:"cause"`
	Reason     string   `json:"reason" form:"reason"`
	Intensity  int      `json:"intensity" form:"intensity"`
}

type attackResponse struct {
	ID         string   `json:"id"`
	OccurredAt string   `json:"occurred_at"`
	Date       string   `json:"date"`
	Answers    []string `json:"answers"`
	Cause      string   `json:"cause"`
	CauseLabel string   `json:"cause_label"`
	Reason     string   `json:"reason"`
	Intensity  int      `json:"intensity"`
}

func (handler *Handler) newAttackResponse(attack models.Attack, language string) attackResponse {
	answers := attack.Answers
	if answers == nil {
		answers = []string{}
	}
	return attackResponse{
		ID:         attack.PublicID,
		OccurredAt: attack.OccurredAt.In(handler.location).Format(time.RFC3339),
		Date:       services.DateAtLocation(attack.OccurredAt, handler.location).Format(services.DayLayout),
		Answers:    answers,
		Cause:      attack.Cause,
		CauseLabel: handler.i18n.Translate(language, services.CauseMessageKey(attack.Cause)),
		Reason:     attack.Reason,
		Intensity:  attack.Intensity,
	}
}

func (handler *Handler) newAttackResponses(attacks []models.Attack, language string) []attackResponse {
	result := make([]attackResponse, 0, len(attacks))
	for _, attack := range attacks {
		result = append(result, handler.newAttackResponse(attack, language))
	}
	return result
}

func (handler *Handler) GetSurvey(c *fiber.Ctx) error {
	return c.JSON(services.BuildSurvey(handler.i18n, handler.currentLanguage(c)))
}

func (handler *Handler) GetTools(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"tools": services.BuildTools(handler.i18n, handler.currentLanguage(c))})
}

func (handler *Handler) CreateAttack(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := attackInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	attack, err := handler.attackService.Create(user.ID, services.AttackInput{
		OccurredAt: input.OccurredAt,
		Answers:    input.Answers,
		Cause:      input.Cause,
		Reason:     input.Reason,
		Intensity:  input.Intensity,
	}, handler.now(), handler.location)
	if err != nil {
		if status, message, known := attackErrorResponse(err); known {
			return apiError(c, status, message)
		}
		return handler.internalError(c, "failed to save attack", err)
	}

	return c.Status(fiber.StatusCreated).JSON(handler.newAttackResponse(attack, handler.currentLanguage(c)))
}

func (handler *Handler) ListAttacks(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, err := services.ParseOptionalDayRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}
	attacks, err := handler.attackService.List(user.ID, from, to)
	if err != nil {
		return handler.internalError(c, "failed to load attacks", err)
	}
	return c.JSON(fiber.Map{"attacks": handler.newAttackResponses(attacks, handler.currentLanguage(c))})
}

func (handler *Handler) GetAttack(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	attack, err := handler.attackService.Get(user.ID, c.Params("id"))
	if errors.Is(err, services.ErrAttackNotFound) {
		return apiError(c, fiber.StatusNotFound, "attack not found")
	}
	if err != nil {
		return handler.internalError(c, "failed to load attack", err)
	}
	return c.JSON(handler.newAttackResponse(attack, handler.currentLanguage(c)))
}

func (handler *Handler) DeleteAttack(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	err := handler.attackService.Delete(user.ID, c.Params("id"))
	if errors.Is(err, services.ErrAttackNotFound) {
		return apiError(c, fiber.StatusNotFound, "attack not found")
	}
	if err != nil {
		return handler.internalError(c, "failed to delete attack", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func attackErrorResponse(err error) (int, string, bool) {
	switch {
	case errors.Is(err, services.ErrAttackOccurredAtInvalid):
		return fiber.StatusBadRequest, "invalid occurred_at", true
	case errors.Is(err, services.ErrAttackInFuture):
		return fiber.StatusBadRequest, "occurred_at in future", true
	case errors.Is(err, services.ErrSurveyAnswersMissing):
		return fiber.StatusBadRequest, "answers required", true
	case errors.Is(err, services.ErrSurveyAnswerUnknown):
		return fiber.StatusBadRequest, "unknown answer", true
	case errors.Is(err, services.ErrAttackCauseInvalid):
		return fiber.StatusBadRequest, "invalid cause", true
	case errors.Is(err, services.ErrAttackReasonTooLong):
		return fiber.StatusBadRequest, "reason too long", true
	case errors.Is(err, services.ErrAttackIntensityInvalid):
		return fiber.StatusBadRequest, "invalid intensity", true
	default:
		return 0, "", false
	}
}
