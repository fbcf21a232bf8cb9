package services

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/anxiolytic/internal/security"
	"golang.org/x/crypto/bcrypt"
)

const (
	recoveryCodePrefix     = "ANXI"
	recoveryCodeGroups     = 3
	recoveryCodeGroupSize  = 4
	temporaryPasswordChars = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

func GenerateRecoveryCode() (string, error) {
	return security.GroupedCode(recoveryCodePrefix, recoveryCodeGroups, recoveryCodeGroupSize)
}

func GenerateRecoveryCodeHash() (string, string, error) {
	code, err := GenerateRecoveryCode()
	if err != nil {
		return "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(hash), nil
}

// NormalizeRecoveryCode accepts codes typed without dashes, with spaces or in
// lower case and returns the canonical ANXI-XXXX-XXXX-XXXX form.
func NormalizeRecoveryCode(raw string) string {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.TrimPrefix(normalized, recoveryCodePrefix)

	size := recoveryCodeGroups * recoveryCodeGroupSize
	if len(normalized) != size {
		return strings.ToUpper(strings.TrimSpace(raw))
	}
	return fmt.Sprintf("%s-%s-%s-%s", recoveryCodePrefix, normalized[:4], normalized[4:8], normalized[8:12])
}

// GenerateTemporaryPassword returns a random password that satisfies
// ValidatePasswordStrength.
func GenerateTemporaryPassword() (string, error) {
	for {
		candidate, err := security.RandomString(16, temporaryPasswordChars)
		if err != nil {
			return "", err
		}
		if ValidatePasswordStrength(candidate) == nil {
			return candidate, nil
		}
	}
}
