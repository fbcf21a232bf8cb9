package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/anxiolytic/internal/models"
	"github.com/terraincognita07/anxiolytic/internal/services"
)

const (
	authAttemptsLimit  = 8
	authAttemptsWindow = 15 * time.Minute
)

type credentialsInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	RememberMe      bool   `json:"remember_me" form:"remember_me"`
}

type forgotPasswordInput struct {
	RecoveryCode    string `json:"recovery_code" form:"recovery_code"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type userResponse struct {
	ID                 uint   `json:"id"`
	Email              string `json:"email"`
	DisplayName        string `json:"display_name"`
	Language           string `json:"language"`
	RemindersEnabled   bool   `json:"reminders_enabled"`
	MustChangePassword bool   `json:"must_change_password"`
}

func (handler *Handler) newUserResponse(user *models.User) userResponse {
	language := handler.i18n.DefaultLanguage()
	if user.Language != "" {
		language = handler.i18n.NormalizeLanguage(user.Language)
	}
	return userResponse{
		ID:                 user.ID,
		Email:              user.Email,
		DisplayName:        user.DisplayName,
		Language:           language,
		RemindersEnabled:   user.RemindersEnabled,
		MustChangePassword: user.MustChangePassword,
	}
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.ConfirmPassword == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, recoveryCode, err := handler.authService.Register(services.RegistrationInput{
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		Language:        handler.currentLanguage(c),
	}, handler.now())
	switch {
	case errors.Is(err, services.ErrAuthEmailInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid email")
	case errors.Is(err, services.ErrPasswordMismatch):
		return apiError(c, fiber.StatusBadRequest, "password mismatch")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrEmailAlreadyExists):
		return apiError(c, fiber.StatusConflict, "email already exists")
	case err != nil:
		return handler.internalError(c, "failed to create account", err)
	}

	token, err := handler.issueSession(c, &user, true)
	if err != nil {
		return handler.internalError(c, "failed to create session", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":            true,
		"token":         token,
		"recovery_code": recoveryCode,
		"user":          handler.newUserResponse(&user),
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	now := handler.now()
	limiterKey := "login:" + requestLimiterKey(c)
	if handler.authLimiter.tooManyRecent(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password)
	switch {
	case errors.Is(err, services.ErrPasswordChangeRequired):
		handler.authLimiter.reset(limiterKey)
		token, tokenErr := handler.issueSession(c, &user, false)
		if tokenErr != nil {
			return handler.internalError(c, "failed to create session", tokenErr)
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "password change required",
			"token": token,
		})
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		handler.authLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case err != nil:
		return handler.internalError(c, "failed to sign in", err)
	}

	handler.authLimiter.reset(limiterKey)
	token, err := handler.issueSession(c, &user, input.RememberMe)
	if err != nil {
		return handler.internalError(c, "failed to create session", err)
	}
	return c.JSON(fiber.Map{
		"ok":    true,
		"token": token,
		"user":  handler.newUserResponse(&user),
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Session(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(handler.newUserResponse(user))
}

// ForgotPassword resets the password of the recovery code's owner, rotates the
// code and signs the user in.
func (handler *Handler) ForgotPassword(c *fiber.Ctx) error {
	now := handler.now()
	limiterKey := "recovery:" + requestLimiterKey(c)
	if handler.authLimiter.tooManyRecent(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many recovery attempts")
	}

	input := forgotPasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		handler.authLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, recoveryCode, err := handler.authService.ResetPasswordWithRecoveryCode(input.RecoveryCode, input.Password, input.ConfirmPassword)
	switch {
	case errors.Is(err, services.ErrAuthRecoveryCodeInvalid), errors.Is(err, services.ErrRecoveryCodeNotFound):
		handler.authLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusBadRequest, "invalid recovery code")
	case errors.Is(err, services.ErrPasswordMismatch):
		return apiError(c, fiber.StatusBadRequest, "password mismatch")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case err != nil:
		return handler.internalError(c, "failed to reset password", err)
	}
	handler.authLimiter.reset(limiterKey)

	token, err := handler.issueSession(c, &user, false)
	if err != nil {
		return handler.internalError(c, "failed to create session", err)
	}
	return c.JSON(fiber.Map{
		"ok":            true,
		"token":         token,
		"recovery_code": recoveryCode,
	})
}
