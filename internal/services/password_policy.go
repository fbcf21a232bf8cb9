package services

import (
	"errors"
	"unicode"
)

const minPasswordLength = 8

var (
	ErrWeakPassword     = errors.New("weak password")
	ErrPasswordMismatch = errors.New("password mismatch")
)

func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return ErrWeakPassword
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return ErrWeakPassword
}

// ValidateNewPassword checks a password typed twice by the user.
func ValidateNewPassword(password string, confirmation string) error {
	if password != confirmation {
		return ErrPasswordMismatch
	}
	return ValidatePasswordStrength(password)
}
