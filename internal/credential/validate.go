package credential

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/DukeRupert/kebaikan/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// domainTypos maps commonly mistyped mail domains to the intended one.
var domainTypos = map[string]string{
	"gmial.com":   "gmail.com",
	"yahooo.com":  "yahoo.com",
	"hotmial.com": "hotmail.com",
}

const (
	loginPasswordMin  = 6
	signupPasswordMin = 8
	nameMin           = 2
)

// checkField returns the message shown for an invalid value, or "" when
// value is acceptable. Silent validity is exactly checkField(...) == "".
func checkField(field, value string, mode domain.Mode) string {
	switch field {
	case domain.FieldEmail:
		return checkEmail(value)
	case domain.FieldPassword:
		return checkPassword(value, mode)
	case domain.FieldName:
		return checkName(value, mode)
	}
	return ""
}

func checkEmail(email string) string {
	if email == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address"
	}
	local, host, _ := strings.Cut(email, "@")
	if fix, ok := domainTypos[strings.ToLower(host)]; ok {
		return fmt.Sprintf("Did you mean %s@%s?", local, fix)
	}
	return ""
}

func checkPassword(password string, mode domain.Mode) string {
	if password == "" {
		return "Password is required"
	}
	n := utf8.RuneCountInString(password)
	if n < loginPasswordMin {
		return "Password must be at least 6 characters long"
	}
	if mode == domain.ModeLogin {
		return ""
	}
	if !lowerPattern.MatchString(password) || !upperPattern.MatchString(password) {
		return "Password must contain both uppercase and lowercase letters"
	}
	if !digitPattern.MatchString(password) {
		return "Password must contain at least one number"
	}
	if n < signupPasswordMin {
		return "Password must be at least 8 characters long for new accounts"
	}
	return ""
}

func checkName(name string, mode domain.Mode) string {
	if mode == domain.ModeLogin {
		return ""
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Full name is required"
	}
	if utf8.RuneCountInString(trimmed) < nameMin {
		return "Name must be at least 2 characters long"
	}
	if !namePattern.MatchString(name) {
		return "Name can only contain letters and spaces"
	}
	return ""
}

// Valid reports the silent validity of value for field in mode. It never
// raises a notice.
func Valid(field, value string, mode domain.Mode) bool {
	return checkField(field, value, mode) == ""
}

// PasswordRules reports the individual signup password requirements for
// live checklist display.
type PasswordRules struct {
	MinLength bool `json:"min_length"`
	MixedCase bool `json:"mixed_case"`
	Digit     bool `json:"digit"`
}

// CheckPasswordRules evaluates each signup password requirement.
func CheckPasswordRules(password string) PasswordRules {
	return PasswordRules{
		MinLength: utf8.RuneCountInString(password) >= signupPasswordMin,
		MixedCase: lowerPattern.MatchString(password) && upperPattern.MatchString(password),
		Digit:     digitPattern.MatchString(password),
	}
}

// identityFor derives the display name handed to the login collaborator.
func identityFor(mode domain.Mode, email, name string) string {
	if mode == domain.ModeSignup {
		if n := strings.TrimSpace(name); n != "" {
			return n
		}
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}
