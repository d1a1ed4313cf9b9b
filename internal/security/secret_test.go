package security_test

import (
	"regexp"
	"testing"

	"github.com/Rrens/business-assistant/internal/security"
)

func TestGenerateSecret(t *testing.T) {
	secret, err := security.GenerateSecret(32)
	if err != nil {
		t.Fatalf("failed to generate secret: %v", err)
	}

	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(secret) {
		t.Errorf("unexpected secret format: %q", secret)
	}

	other, _ := security.GenerateSecret(32)
	if other == secret {
		t.Error("two generated secrets are equal")
	}

	for _, n := range []int{0, -1, 129} {
		if _, err := security.GenerateSecret(n); err == nil {
			t.Errorf("expected error for length %d, got nil", n)
		}
	}
}

func TestVerifySecret(t *testing.T) {
	tests := []struct {
		name string
		want string
		got  string
		ok   bool
	}{
		{"match", "abc", "abc", true},
		{"mismatch", "abc", "abd", false},
		{"missing header", "abc", "", false},
		{"no secret configured", "", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := security.VerifySecret(tt.want, tt.got); got != tt.ok {
				t.Errorf("VerifySecret(%q, %q) = %v, want %v", tt.want, tt.got, got, tt.ok)
			}
		})
	}
}
