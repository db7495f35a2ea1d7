package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 50
	MaxEmailLength    = 100
	MaxPasswordLength = 72 // bcrypt ignores anything longer
	MaxTitleLength    = 255
	MaxShortFieldLen  = 100
)

var (
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.\-]+$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
)

// ValidateUsername checks if the username is present and well formed
func ValidateUsername(username string) (bool, string) {
	if username == "" {
		return false, "Username is required"
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return false, fmt.Sprintf("Username must not exceed %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return false, "Username can only contain letters, numbers, dots, dashes and underscores"
	}
	return true, ""
}

// ValidateEmail checks if the email is present and looks like an address
func ValidateEmail(email string) (bool, string) {
	if email == "" {
		return false, "Email is required"
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return false, fmt.Sprintf("Email must not exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword checks if the password is present and hashable
func ValidatePassword(password string) (bool, string) {
	if password == "" {
		return false, "Password is required"
	}
	if len(password) > MaxPasswordLength {
		return false, fmt.Sprintf("Password must not exceed %d bytes", MaxPasswordLength)
	}
	return true, ""
}

// ValidateStringLength checks that a trimmed value is non-empty and at most max runes
func ValidateStringLength(field, value string, max int) (bool, string) {
	if strings.TrimSpace(value) == "" {
		return false, fmt.Sprintf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > max {
		return false, fmt.Sprintf("%s must not exceed %d characters", field, max)
	}
	return true, ""
}
