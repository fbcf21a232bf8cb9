package services

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/terraincognita07/anxiolytic/internal/security"
)

var (
	ErrAuthCredentialsInvalid  = errors.New("auth credentials invalid")
	ErrAuthRecoveryCodeInvalid = errors.New("auth recovery code invalid")
	ErrAuthEmailInvalid        = errors.New("auth email invalid")
)

// Codes are generated from security.CodeAlphabet, so look-alike characters
// never appear in a valid code.
var recoveryCodePattern = regexp.MustCompile(fmt.Sprintf(
	`^%s(?:-[%s]{%d}){%d}$`,
	recoveryCodePrefix, security.CodeAlphabet, recoveryCodeGroupSize, recoveryCodeGroups,
))

// Credentials is a login attempt after normalization.
type Credentials struct {
	Email    string
	Password string
}

// NormalizeAuthEmail lower-cases and trims raw and returns "" unless the
// result is a bare RFC 5322 address.
func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if parsed, err := mail.ParseAddress(email); err != nil || parsed.Address != email {
		return ""
	}
	return email
}

func ParseCredentials(emailRaw string, passwordRaw string) (Credentials, error) {
	credentials := Credentials{
		Email:    NormalizeAuthEmail(emailRaw),
		Password: strings.TrimSpace(passwordRaw),
	}
	if credentials.Email == "" || credentials.Password == "" {
		return Credentials{}, ErrAuthCredentialsInvalid
	}
	return credentials, nil
}

// NormalizePasswordInput trims a new password and its confirmation the same
// way ParseCredentials trims a password at login.
func NormalizePasswordInput(password string, confirmation string) (string, string) {
	return strings.TrimSpace(password), strings.TrimSpace(confirmation)
}

func ValidateRecoveryCodeFormat(code string) error {
	if recoveryCodePattern.MatchString(strings.TrimSpace(code)) {
		return nil
	}
	return ErrAuthRecoveryCodeInvalid
}
