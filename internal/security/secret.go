package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
)

// WebhookSecretHeader carries the secret Telegram echoes on every webhook call
const WebhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// GenerateSecret returns a random hex secret of n bytes.
// Telegram accepts 1-256 characters of A-Z, a-z, 0-9, _ and -.
func GenerateSecret(n int) (string, error) {
	if n <= 0 || n > 128 {
		return "", fmt.Errorf("invalid secret length: %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// VerifySecret compares got against want in constant time. An empty want accepts anything.
func VerifySecret(want, got string) bool {
	if want == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
