package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/anxiolytic/internal/models"
)

const (
	authCookieName     = "anxiolytic_auth"
	languageCookieName = "anxiolytic_lang"
	contextUserKey     = "current_user"
	contextLanguageKey = "current_language"
	contextDetectedKey = "detected_language"
)

var errUnauthenticated = errors.New("unauthenticated")

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// LanguageMiddleware records the explicit language cookie and the
// Accept-Language match; currentLanguage picks between them.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	if cookieLanguage := strings.TrimSpace(c.Cookies(languageCookieName)); cookieLanguage != "" {
		c.Locals(contextLanguageKey, handler.i18n.NormalizeLanguage(cookieLanguage))
	}
	c.Locals(contextDetectedKey, handler.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language")))
	return c.Next()
}

// AuthRequired rejects requests without a valid session. Users who must change
// their password may only reach the password, session and logout endpoints.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserKey, user)
	if user.MustChangePassword && !allowedDuringPasswordChange(c.Path()) {
		return apiError(c, fiber.StatusForbidden, "password change required")
	}
	return c.Next()
}

func allowedDuringPasswordChange(path string) bool {
	switch strings.TrimRight(strings.TrimSpace(path), "/") {
	case "/api/settings/change-password", "/api/auth/session", "/api/auth/logout":
		return true
	default:
		return false
	}
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	tokenValue := requestToken(c)
	if tokenValue == "" {
		return nil, errUnauthenticated
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errUnauthenticated
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errUnauthenticated
	}

	user, err := handler.authService.FindByID(claims.UserID)
	if err != nil {
		return nil, errUnauthenticated
	}
	return &user, nil
}

func requestToken(c *fiber.Ctx) string {
	if header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); header != "" {
		scheme, value, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(value)
		}
	}
	return strings.TrimSpace(c.Cookies(authCookieName))
}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}

// currentLanguage prefers the language cookie, then the signed-in user's
// saved language, then Accept-Language.
func (handler *Handler) currentLanguage(c *fiber.Ctx) string {
	if language, ok := c.Locals(contextLanguageKey).(string); ok && language != "" {
		return language
	}
	if user, ok := currentUser(c); ok && user.Language != "" {
		return handler.i18n.NormalizeLanguage(user.Language)
	}
	if language, ok := c.Locals(contextDetectedKey).(string); ok && language != "" {
		return language
	}
	return handler.i18n.DefaultLanguage()
}
