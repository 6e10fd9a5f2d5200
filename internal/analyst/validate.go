// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package analyst

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/oops"
)

// Username and password length limits, in characters.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var sanitizeReplacer = strings.NewReplacer("<", "", ">", "")

// ValidateUsername reports why username is not acceptable, or nil.
// The returned message is safe to show to the client.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	switch {
	case username == "":
		return oops.Code(CodeInvalidUsername).Errorf("Username is required and must be a string")
	case n < MinUsernameLength:
		return oops.Code(CodeInvalidUsername).
			With("min", MinUsernameLength).
			Errorf("Username must be at least %d characters long", MinUsernameLength)
	case n > MaxUsernameLength:
		return oops.Code(CodeInvalidUsername).
			With("max", MaxUsernameLength).
			Errorf("Username must not exceed %d characters", MaxUsernameLength)
	case !usernameRegex.MatchString(username):
		return oops.Code(CodeInvalidUsername).
			Errorf("Username can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidatePassword reports why password is not acceptable, or nil.
// There is no character-class rule; only the length is checked.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	switch {
	case password == "":
		return oops.Code(CodeInvalidPassword).Errorf("Password is required and must be a string")
	case n < MinPasswordLength:
		return oops.Code(CodeInvalidPassword).
			With("min", MinPasswordLength).
			Errorf("Password must be at least %d characters long", MinPasswordLength)
	case n > MaxPasswordLength:
		return oops.Code(CodeInvalidPassword).
			With("max", MaxPasswordLength).
			Errorf("Password must not exceed %d characters", MaxPasswordLength)
	}
	return nil
}

// SanitizeInput trims surrounding whitespace and drops '<' and '>'.
// It is a narrow markup filter, not general-purpose escaping.
func SanitizeInput(input string) string {
	return sanitizeReplacer.Replace(strings.TrimSpace(input))
}
