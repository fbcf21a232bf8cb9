package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/anxiolytic/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrRecoveryCodeNotFound   = errors.New("recovery code not found")
	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrPasswordChangeRequired = errors.New("password change required")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
	UpdateRecoveryCodeHash(userID uint, recoveryHash string) error
	ListWithRecoveryCodeHash() ([]models.User, error)
}

type RegistrationInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Language        string
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a user and returns it together with the plain recovery
// code, which is shown once and stored only as a bcrypt hash.
func (service *AuthService) Register(input RegistrationInput, now time.Time) (models.User, string, error) {
	email := NormalizeAuthEmail(input.Email)
	if email == "" {
		return models.User{}, "", ErrAuthEmailInvalid
	}
	password, confirmPassword := NormalizePasswordInput(input.Password, input.ConfirmPassword)
	if err := ValidateNewPassword(password, confirmPassword); err != nil {
		return models.User{}, "", err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.User{}, "", ErrEmailAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	recoveryCode, recoveryHash, err := GenerateRecoveryCodeHash()
	if err != nil {
		return models.User{}, "", fmt.Errorf("generate recovery code: %w", err)
	}

	user := models.User{
		Email:            email,
		PasswordHash:     string(passwordHash),
		RecoveryCodeHash: recoveryHash,
		Language:         strings.TrimSpace(input.Language),
		CreatedAt:        now.UTC(),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, "", fmt.Errorf("create user: %w", err)
	}
	return user, recoveryCode, nil
}

// Authenticate verifies credentials. A user flagged with MustChangePassword is
// returned together with ErrPasswordChangeRequired.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	credentials, err := ParseCredentials(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByNormalizedEmail(credentials.Email)
	if err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if user.MustChangePassword {
		return user, ErrPasswordChangeRequired
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

func (service *AuthService) FindUserByRecoveryCode(code string) (*models.User, error) {
	users, err := service.users.ListWithRecoveryCodeHash()
	if err != nil {
		return nil, err
	}

	for index := range users {
		hash := strings.TrimSpace(users[index].RecoveryCodeHash)
		if hash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil {
			return &users[index], nil
		}
	}
	return nil, ErrRecoveryCodeNotFound
}

// ResetPasswordWithRecoveryCode sets a new password for the owner of code and
// rotates the recovery code. The new plain code is returned.
func (service *AuthService) ResetPasswordWithRecoveryCode(codeRaw string, passwordRaw string, confirmPasswordRaw string) (models.User, string, error) {
	code := NormalizeRecoveryCode(codeRaw)
	password, confirmPassword := NormalizePasswordInput(passwordRaw, confirmPasswordRaw)
	if err := ValidateRecoveryCodeFormat(code); err != nil {
		return models.User{}, "", err
	}
	if err := ValidateNewPassword(password, confirmPassword); err != nil {
		return models.User{}, "", err
	}

	user, err := service.FindUserByRecoveryCode(code)
	if err != nil {
		return models.User{}, "", err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(user.ID, string(passwordHash), false); err != nil {
		return models.User{}, "", fmt.Errorf("update password: %w", err)
	}

	newCode, newHash, err := GenerateRecoveryCodeHash()
	if err != nil {
		return models.User{}, "", fmt.Errorf("generate recovery code: %w", err)
	}
	if err := service.users.UpdateRecoveryCodeHash(user.ID, newHash); err != nil {
		return models.User{}, "", fmt.Errorf("rotate recovery code: %w", err)
	}

	user.PasswordHash = string(passwordHash)
	user.RecoveryCodeHash = newHash
	user.MustChangePassword = false
	return *user, newCode, nil
}
