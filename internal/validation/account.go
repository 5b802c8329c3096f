package validation

import (
	"errors"
	"net/mail"
	"strings"
)

const (
	maxEmailLength    = 254 // RFC 5321 path limit
	maxNameLength     = 100
	minPasswordLength = 6
	maxPasswordLength = 72 // bcrypt ignores anything past 72 bytes
)

// ValidateEmail checks an account email address against RFC 5322.
func ValidateEmail(email string) error {
	switch {
	case email == "":
		return errors.New("email address is required")
	case len(email) > maxEmailLength:
		return errors.New("email address is too long (max 254 characters)")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}
	return nil
}

// ValidateName checks the display name musicians are listed under.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return errors.New("name is required")
	case len(trimmed) > maxNameLength:
		return errors.New("name is too long (max 100 characters)")
	}
	return nil
}

// ValidatePassword enforces the auth provider's length bounds.
func ValidatePassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return errors.New("password must be at least 6 characters")
	case len(password) > maxPasswordLength:
		return errors.New("password must not exceed 72 characters")
	}
	return nil
}
