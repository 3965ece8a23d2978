package user

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/estaterec/internal/domain"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

// PasswordSymbols is the punctuation set a password must draw at least one character from.
const PasswordSymbols = "!@#$%^&*()_+=-"

// Password rule messages, in the order they are checked.
const (
	RuleLength    = "password must be at least 8 characters long"
	RuleLowercase = "password must contain at least one lowercase letter"
	RuleUppercase = "password must contain at least one uppercase letter"
	RuleDigit     = "password must contain at least one digit"
	RuleSymbol    = "password must contain at least one special character"
	RuleMaxLength = "password must be at most 72 bytes long"
)

type passwordRule struct {
	message string
	ok      func(string) bool
}

var passwordRules = []passwordRule{
	{RuleLength, func(p string) bool { return utf8.RuneCountInString(p) >= MinPasswordLength }},
	{RuleLowercase, containsFunc(func(r rune) bool { return r >= 'a' && r <= 'z' })},
	{RuleUppercase, containsFunc(func(r rune) bool { return r >= 'A' && r <= 'Z' })},
	{RuleDigit, containsFunc(func(r rune) bool { return r >= '0' && r <= '9' })},
	{RuleSymbol, func(p string) bool { return strings.ContainsAny(p, PasswordSymbols) }},
	{RuleMaxLength, func(p string) bool { return len(p) <= MaxPasswordBytes }},
}

func containsFunc(f func(rune) bool) func(string) bool {
	return func(p string) bool { return strings.ContainsFunc(p, f) }
}

// ValidatePassword applies the acceptance policy and reports the first failing rule
// as a *domain.PasswordPolicyError.
func ValidatePassword(password string) error {
	for _, rule := range passwordRules {
		if !rule.ok(password) {
			return &domain.PasswordPolicyError{Rule: rule.message}
		}
	}
	return nil
}
