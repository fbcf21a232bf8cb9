package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// CodeAlphabet omits characters that are easy to confuse when read aloud (I, O, 0, 1).
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
	errInvalidGroups  = errors.New("groups and group size must be positive")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}

// GroupedCode returns prefix followed by dash-separated random groups,
// e.g. "ANXI-7KQ2-M9XD-42PA" for GroupedCode("ANXI", 3, 4).
func GroupedCode(prefix string, groups int, groupSize int) (string, error) {
	if groups <= 0 || groupSize <= 0 {
		return "", errInvalidGroups
	}

	value, err := RandomString(groups*groupSize, CodeAlphabet)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, groups+1)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	for start := 0; start < len(value); start += groupSize {
		parts = append(parts, value[start:start+groupSize])
	}
	return strings.Join(parts, "-"), nil
}
