package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/anxiolytic/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const maxSettingsDisplayNameLength = 64

var (
	ErrSettingsPasswordMissing            = errors.New("settings password missing")
	ErrSettingsPasswordInvalid            = errors.New("settings password invalid")
	ErrSettingsPasswordChangeInvalidInput = errors.New("settings password change invalid input")
	ErrSettingsInvalidCurrentPassword     = errors.New("settings invalid current password")
	ErrSettingsNewPasswordMustDiffer      = errors.New("settings new password must differ")
	ErrSettingsDisplayNameTooLong         = errors.New("settings display name too long")
	ErrSettingsLanguageUnsupported        = errors.New("settings language unsupported")
)

type SettingsUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdateByID(userID uint, updates map[string]any) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
	UpdateRecoveryCodeHash(userID uint, recoveryHash string) error
	ClearUserData(userID uint) error
	DeleteAccountAndRelatedData(userID uint) error
}

type LanguageCatalog interface {
	SupportedLanguages() []string
}

type ProfileUpdate struct {
	DisplayName string
	Language    string
}

type SettingsService struct {
	users     SettingsUserRepository
	languages LanguageCatalog
}

func NewSettingsService(users SettingsUserRepository, languages LanguageCatalog) *SettingsService {
	return &SettingsService{users: users, languages: languages}
}

func (service *SettingsService) NormalizeDisplayName(raw string) (string, error) {
	displayName := strings.TrimSpace(raw)
	if utf8.RuneCountInString(displayName) > maxSettingsDisplayNameLength {
		return "", ErrSettingsDisplayNameTooLong
	}
	return displayName, nil
}

// UpdateProfile stores the display name and, when non-empty, the preferred language.
func (service *SettingsService) UpdateProfile(userID uint, update ProfileUpdate) (models.User, error) {
	displayName, err := service.NormalizeDisplayName(update.DisplayName)
	if err != nil {
		return models.User{}, err
	}
	updates := map[string]any{"display_name": displayName}

	language := strings.ToLower(strings.TrimSpace(update.Language))
	if language != "" {
		supported := false
		for _, candidate := range service.languages.SupportedLanguages() {
			if candidate == language {
				supported = true
				break
			}
		}
		if !supported {
			return models.User{}, ErrSettingsLanguageUnsupported
		}
		updates["language"] = language
	}

	if err := service.users.UpdateByID(userID, updates); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return service.users.FindByID(userID)
}

func (service *SettingsService) ValidatePasswordChange(passwordHash string, currentPassword string, newPassword string, confirmPassword string) error {
	currentPassword = strings.TrimSpace(currentPassword)
	newPassword, confirmPassword = NormalizePasswordInput(newPassword, confirmPassword)

	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		return ErrSettingsPasswordChangeInvalidInput
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(currentPassword)) != nil {
		return ErrSettingsInvalidCurrentPassword
	}
	if currentPassword == newPassword {
		return ErrSettingsNewPasswordMustDiffer
	}
	return ValidatePasswordStrength(newPassword)
}

// ChangePassword also clears MustChangePassword.
func (service *SettingsService) ChangePassword(user models.User, currentPassword string, newPassword string, confirmPassword string) error {
	if err := service.ValidatePasswordChange(user.PasswordHash, currentPassword, newPassword, confirmPassword); err != nil {
		return err
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(newPassword)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return service.users.UpdatePassword(user.ID, string(passwordHash), false)
}

func (service *SettingsService) RegenerateRecoveryCode(userID uint) (string, error) {
	code, hash, err := GenerateRecoveryCodeHash()
	if err != nil {
		return "", fmt.Errorf("generate recovery code: %w", err)
	}
	if err := service.users.UpdateRecoveryCodeHash(userID, hash); err != nil {
		return "", fmt.Errorf("store recovery code: %w", err)
	}
	return code, nil
}

func (service *SettingsService) SetRemindersEnabled(userID uint, enabled bool) error {
	return service.users.UpdateByID(userID, map[string]any{"reminders_enabled": enabled})
}

func (service *SettingsService) ClearData(userID uint) error {
	return service.users.ClearUserData(userID)
}

func (service *SettingsService) ValidateDeleteAccountPassword(passwordHash string, rawPassword string) error {
	password := strings.TrimSpace(rawPassword)
	if password == "" {
		return ErrSettingsPasswordMissing
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return ErrSettingsPasswordInvalid
	}
	return nil
}

func (service *SettingsService) DeleteAccount(user models.User, rawPassword string) error {
	if err := service.ValidateDeleteAccountPassword(user.PasswordHash, rawPassword); err != nil {
		return err
	}
	return service.users.DeleteAccountAndRelatedData(user.ID)
}
