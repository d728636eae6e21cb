package security

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

// ValidatePassword counts runes, not bytes.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// NormalizeEmail lower-cases and trims so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
