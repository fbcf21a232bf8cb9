package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/anxiolytic/internal/services"
)

type profileInput struct {
	DisplayName string `json:"display_name" form:"display_name"`
	Language    string `json:"language" form:"language"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type remindersInput struct {
	Enabled bool `json:"enabled" form:"enabled"`
}

type deleteAccountInput struct {
	Password string `json:"password" form:"password"`
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := profileInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid profile input")
	}

	updated, err := handler.settingsService.UpdateProfile(user.ID, services.ProfileUpdate{
		DisplayName: input.DisplayName,
		Language:    input.Language,
	})
	switch {
	case errors.Is(err, services.ErrSettingsDisplayNameTooLong):
		return apiError(c, fiber.StatusBadRequest, "display name too long")
	case errors.Is(err, services.ErrSettingsLanguageUnsupported):
		return apiError(c, fiber.StatusBadRequest, "unsupported language")
	case err != nil:
		return handler.internalError(c, "failed to update profile", err)
	}
	return c.JSON(fiber.Map{"ok": true, "user": handler.newUserResponse(&updated)})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid settings input")
	}

	err := handler.settingsService.ChangePassword(*user, input.CurrentPassword, input.NewPassword, input.ConfirmPassword)
	switch {
	case errors.Is(err, services.ErrSettingsPasswordChangeInvalidInput):
		return apiError(c, fiber.StatusBadRequest, "invalid settings input")
	case errors.Is(err, services.ErrPasswordMismatch):
		return apiError(c, fiber.StatusBadRequest, "password mismatch")
	case errors.Is(err, services.ErrSettingsInvalidCurrentPassword):
		return apiError(c, fiber.StatusUnauthorized, "invalid current password")
	case errors.Is(err, services.ErrSettingsNewPasswordMustDiffer):
		return apiError(c, fiber.StatusBadRequest, "new password must differ")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case err != nil:
		return handler.internalError(c, "failed to update password", err)
	}

	user.MustChangePassword = false
	token, err := handler.issueSession(c, user, false)
	if err != nil {
		return handler.internalError(c, "failed to create session", err)
	}
	return c.JSON(fiber.Map{"ok": true, "token": token})
}

func (handler *Handler) RegenerateRecoveryCode(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	code, err := handler.settingsService.RegenerateRecoveryCode(user.ID)
	if err != nil {
		return handler.internalError(c, "failed to regenerate recovery code", err)
	}
	return c.JSON(fiber.Map{"ok": true, "recovery_code": code})
}

func (handler *Handler) UpdateReminders(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := remindersInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid settings input")
	}
	if err := handler.settingsService.SetRemindersEnabled(user.ID, input.Enabled); err != nil {
		return handler.internalError(c, "failed to update reminders", err)
	}
	return c.JSON(fiber.Map{"ok": true, "reminders_enabled": input.Enabled})
}

func (handler *Handler) ClearAllData(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.settingsService.ClearData(user.ID); err != nil {
		return handler.internalError(c, "failed to clear data", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := deleteAccountInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	err := handler.settingsService.DeleteAccount(*user, input.Password)
	switch {
	case errors.Is(err, services.ErrSettingsPasswordMissing):
		return apiError(c, fiber.StatusBadRequest, "password required")
	case errors.Is(err, services.ErrSettingsPasswordInvalid):
		return apiError(c, fiber.StatusUnauthorized, "invalid password")
	case err != nil:
		return handler.internalError(c, "failed to delete account", err)
	}

	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}
