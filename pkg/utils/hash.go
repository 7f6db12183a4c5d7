package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}

// SubmissionHash identifies a contact request by who sent it and what they
// wrote, so a repeated post of the same message can be recognised.
func SubmissionHash(email, message string) string {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	normalizedMessage := strings.Join(strings.Fields(message), " ")
	return HashString(normalizedEmail + "\n" + normalizedMessage)
}

// RedactEmail returns a short stable token for an email address that is
// safe to write to logs.
func RedactEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return ""
	}
	return "email:" + HashString(normalized)[:12]
}
