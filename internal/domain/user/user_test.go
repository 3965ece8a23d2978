package user

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/estaterec/internal/domain"
)

func TestValidatePassword_RuleOrder(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"empty fails length first", "", RuleLength},
		{"short with everything else", "aA1!", RuleLength},
		{"no lowercase", "ABCDEFG1!", RuleLowercase},
		{"no uppercase", "abcdefg1!", RuleUppercase},
		{"no digit", "abcdEFGH!", RuleDigit},
		{"no symbol", "abcdEFG12", RuleSymbol},
		{"symbol outside set", "abcdEFG12?", RuleSymbol},
		{"only lowercase long", "abcdefghij", RuleUppercase},
		{"over bcrypt limit", "aA1!" + strings.Repeat("x", 69), RuleMaxLength},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrInvalidPassword) {
				t.Errorf("expected ErrInvalidPassword, got %v", err)
			}
			var pe *domain.PasswordPolicyError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *PasswordPolicyError, got %T", err)
			}
			if pe.Rule != tc.want {
				t.Errorf("rule = %q, want %q", pe.Rule, tc.want)
			}
		})
	}
}

func TestValidatePassword_Accepts(t *testing.T) {
	for _, p := range []string{"Passw0rd!", "aB3$efgh", "xY9=xxxx", "Zz1-zzzz"} {
		if err := ValidatePassword(p); err != nil {
			t.Errorf("ValidatePassword(%q) = %v, want nil", p, err)
		}
	}
}

func TestValidatePassword_CountsRunes(t *testing.T) {
	// 7 runes, more than 8 bytes
	if err := ValidatePassword("éA1!bcd"); err == nil {
		t.Fatal("expected length error for 7-rune password")
	}
}

func TestNew_TrimsUsername(t *testing.T) {
	u, err := New("  alice ", "hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username() != "alice" {
		t.Errorf("Username() = %q, want alice", u.Username())
	}
	if u.ID() != 0 {
		t.Errorf("ID() = %d, want 0 before persistence", u.ID())
	}
	if u.CreatedAt().IsZero() {
		t.Error("CreatedAt() should be set")
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New("   ", "hash"); err == nil {
		t.Error("expected error for blank username")
	}
	if _, err := New(strings.Repeat("a", MaxUsernameLength+1), "hash"); err == nil {
		t.Error("expected error for long username")
	}
	if _, err := New("bob", ""); err == nil {
		t.Error("expected error for empty hash")
	}
}
