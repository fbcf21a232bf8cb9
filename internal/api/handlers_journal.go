package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/anxiolytic/internal/models"
	"github.com/terraincognita07/anxiolytic/internal/services"
)

type journalInput struct {
	Date  string `json:"date" form:"date"`
	Title string `json:"title" form:"title"`
	Body  string `json:"body" form:"body"`
	Mood  int    `json:"mood" form:"mood"`
}

type journalEntryResponse struct {
	ID    uint   `json:"id"`
	Date  string `json:"date"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Mood  int    `json:"mood,omitempty"`
}

func newJournalEntryResponse(entry models.JournalEntry) journalEntryResponse {
	return journalEntryResponse{
		ID:    entry.ID,
		Date:  entry.Date.UTC().Format(services.DayLayout),
		Title: entry.Title,
		Body:  entry.Body,
		Mood:  entry.Mood,
	}
}

func (handler *Handler) ListJournal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, err := services.ParseOptionalDayRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}
	entries, err := handler.journalService.List(user.ID, from, to)
	if err != nil {
		return handler.internalError(c, "failed to load journal", err)
	}

	result := make([]journalEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, newJournalEntryResponse(entry))
	}
	return c.JSON(fiber.Map{"entries": result})
}

func (handler *Handler) CreateJournalEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := journalInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.journalService.Create(user.ID, services.JournalInput{
		Date:  input.Date,
		Title: input.Title,
		Body:  input.Body,
		Mood:  input.Mood,
	}, handler.now(), handler.location)
	switch {
	case errors.Is(err, services.ErrInvalidDate):
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	case errors.Is(err, services.ErrJournalDateInFuture):
		return apiError(c, fiber.StatusBadRequest, "date in future")
	case errors.Is(err, services.ErrJournalBodyMissing):
		return apiError(c, fiber.StatusBadRequest, "body required")
	case errors.Is(err, services.ErrJournalBodyTooLong):
		return apiError(c, fiber.StatusBadRequest, "body too long")
	case errors.Is(err, services.ErrJournalTitleTooLong):
		return apiError(c, fiber.StatusBadRequest, "title too long")
	case errors.Is(err, services.ErrJournalMoodInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid mood")
	case err != nil:
		return handler.internalError(c, "failed to save journal entry", err)
	}

	return c.Status(fiber.StatusCreated).JSON(newJournalEntryResponse(entry))
}

func (handler *Handler) DeleteJournalEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entryID, valid := parseUintParam(c, "id")
	if !valid {
		return apiError(c, fiber.StatusNotFound, "journal entry not found")
	}
	err := handler.journalService.Delete(user.ID, entryID)
	if errors.Is(err, services.ErrJournalEntryNotFound) {
		return apiError(c, fiber.StatusNotFound, "journal entry not found")
	}
	if err != nil {
		return handler.internalError(c, "failed to delete journal entry", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
