// Package utils provides shared helpers for kISOTOPE: the random source,
// hashing, and allocation guards.
package utils

import "errors"

// Maximum accepted input lengths. The transform walks its input one rune at
// a time, so unbounded inputs only cost time, but the guards keep a stray
// caller from feeding the engine something absurd.
const (
	// MaxMessageLen is the maximum accepted plaintext length in bytes.
	MaxMessageLen = 1 << 20 // 1MB

	// MaxCiphertextLen is the maximum accepted ciphertext length in bytes.
	// Every plaintext byte expands to a multi-byte token, so this sits well
	// above MaxMessageLen.
	MaxCiphertextLen = 1 << 23 // 8MB
)

var (
	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")
)

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}
