package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/anxiolytic/internal/db"
	"github.com/terraincognita07/anxiolytic/internal/models"
	"github.com/terraincognita07/anxiolytic/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired   = errors.New("a valid email is required")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotATerminal    = errors.New("password prompt requires an interactive terminal")
	ErrPromptCancelled = errors.New("password prompt cancelled")
)

type passwordResetStore interface {
	FindByNormalizedEmail(email string) (models.User, error)
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
}

// ResetPasswordOptions controls how the new password is chosen. With Prompt
// set, ReadPassword is asked twice; otherwise a temporary password is
// generated and printed to Output.
type ResetPasswordOptions struct {
	Prompt       bool
	Output       io.Writer
	ReadPassword func(label string) (string, error)
}

func RunResetPasswordCommand(dbPath string, email string, options ResetPasswordOptions) error {
	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	return resetPassword(db.NewUserRepository(database), email, options)
}

func resetPassword(users passwordResetStore, email string, options ResetPasswordOptions) error {
	if options.Output == nil {
		options.Output = os.Stdout
	}
	if options.ReadPassword == nil {
		options.ReadPassword = readTerminalPassword(options.Output)
	}

	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return ErrEmailRequired
	}

	user, err := users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	password, generated, err := choosePassword(options)
	if err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePassword(user.ID, string(passwordHash), true); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintf(options.Output, "Password reset for %s\n", normalizedEmail)
	if generated {
		fmt.Fprintf(options.Output, "Temporary password: %s\n", password)
	}
	fmt.Fprintln(options.Output, "User must change password on next login.")
	return nil
}

func choosePassword(options ResetPasswordOptions) (string, bool, error) {
	if !options.Prompt {
		password, err := services.GenerateTemporaryPassword()
		if err != nil {
			return "", false, fmt.Errorf("generate temporary password: %w", err)
		}
		return password, true, nil
	}

	password, err := options.ReadPassword("New password: ")
	if err != nil {
		return "", false, err
	}
	confirmation, err := options.ReadPassword("Confirm password: ")
	if err != nil {
		return "", false, err
	}
	password, confirmation = services.NormalizePasswordInput(password, confirmation)
	if err := services.ValidateNewPassword(password, confirmation); err != nil {
		return "", false, err
	}
	return password, false, nil
}
