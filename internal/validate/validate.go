// Package validate checks user-submitted account fields.
//
// Every field check returns a human-readable message, or "" when the value is
// acceptable. Checks that need the database also return an error, which is an
// infrastructure fault and never a validation message.
package validate

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxUsernameLen = 20
	maxEmailLen    = 320
	maxNameLen     = 50
	minPasswordLen = 8
)

var (
	// Only the start of the value is checked, so "ab!!" is accepted.
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9]+`)
	emailRe    = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
	specialRe  = regexp.MustCompile(`[^\p{L}\p{N}]`)
)

// UserLookup answers uniqueness questions against stored accounts.
type UserLookup interface {
	UserIDByUsername(ctx context.Context, username string) (int64, bool, error)
	UserIDByEmail(ctx context.Context, email string) (int64, bool, error)
}

// Operation names the form an email is being validated for.
type Operation string

const (
	OpSignup  Operation = "signup"
	OpProfile Operation = "profile"
)

// EmailScope tells Email which account, if any, may already own the address.
type EmailScope struct {
	Operation Operation
	UserID    int64
}

func length(s string) int { return utf8.RuneCountInString(s) }

// Username checks length, allowed characters and uniqueness.
func Username(ctx context.Context, lookup UserLookup, username string) (string, error) {
	if length(username) > maxUsernameLen {
		return "Your username cannot exceed 20 characters.", nil
	}
	if !usernameRe.MatchString(username) {
		return "Your username can only contain letters and numbers.", nil
	}
	_, exists, err := lookup.UserIDByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if exists {
		return "Username already exists. Please choose a different username.", nil
	}
	return "", nil
}

// Email checks length, shape and that no other account uses the address.
// On the profile form the current owner keeps their own address.
func Email(ctx context.Context, lookup UserLookup, email string, scope EmailScope) (string, error) {
	if length(email) > maxEmailLen {
		return "Your email address cannot exceed 320 characters.", nil
	}
	if !emailRe.MatchString(email) {
		return "Invalid email address.", nil
	}
	ownerID, exists, err := lookup.UserIDByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if exists && !(scope.Operation == OpProfile && ownerID == scope.UserID) {
		return "Email already exists. Please choose a different email.", nil
	}
	return "", nil
}

// Password enforces minimum length and one of each character class.
func Password(password string) string {
	switch {
	case length(password) < minPasswordLen:
		return "Please choose a longer password!"
	case !upperRe.MatchString(password):
		return "Password must contain at least one uppercase letter."
	case !lowerRe.MatchString(password):
		return "Password must contain at least one lowercase letter."
	case !digitRe.MatchString(password):
		return "Password must contain at least one digit."
	case !specialRe.MatchString(password):
		return "Password must contain at least one special character."
	}
	return ""
}

func RePassword(password, repassword string) string {
	if password != repassword {
		return "The two entered passwords do not match."
	}
	return ""
}

func blank(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}

func FirstName(firstName string) string {
	if length(firstName) > maxNameLen {
		return "Your first name cannot exceed 50 characters."
	}
	if blank(firstName) {
		return "First name cannot be just whitespace. Please enter a valid name."
	}
	return ""
}

func LastName(lastName string) string {
	if length(lastName) > maxNameLen {
		return "Your last name cannot exceed 50 characters."
	}
	if blank(lastName) {
		return "Last name cannot be just whitespace. Please enter a valid name."
	}
	return ""
}

func Location(location string) string {
	if length(location) > maxNameLen {
		return "Your location content cannot exceed 50 characters."
	}
	if blank(location) {
		return "Location cannot be just whitespace. Please enter a valid name."
	}
	return ""
}

// PersonalDescription has no length cap.
func PersonalDescription(description string) string {
	if blank(description) {
		return "Personal Description cannot be just whitespace."
	}
	return ""
}
