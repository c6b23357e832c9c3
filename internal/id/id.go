package id

import (
	"strings"

	"github.com/google/uuid"
)

// UUID generates a random (version 4) UUID string.
func UUID() string {
	return uuid.NewString()
}

// Short generates a 16 character hex id derived from a random UUID.
// Suitable for log lines and CLI output where brevity matters.
func Short() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
