package storage

import (
	"fmt"
	"regexp"

	"github.com/sethvargo/go-password/password"
)

// KeyLength is the length of a generated user key.
const KeyLength = 16

var keyRegexp = regexp.MustCompile(`^[A-Za-z0-9]{16}$`)

// GenerateKey returns a random 16-character alphanumeric user key with mixed
// case and four digits.
func GenerateKey() (string, error) {
	key, err := password.Generate(KeyLength, 4, 0, false, true)
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// ValidateKey checks that key has the shape of a generated user key.
func ValidateKey(key string) error {
	if !keyRegexp.MatchString(key) {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return nil
}
