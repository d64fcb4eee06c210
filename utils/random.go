package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"
	"runtime"
)

// RandReader is the entropy source for salts and message padding.
// It defaults to crypto/rand and is a package variable so tests can
// substitute a deterministic reader.
var RandReader io.Reader = rand.Reader

// SecureRandomBytes reads n bytes from RandReader.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(RandReader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// RandomInt returns a uniform random integer in [0, max).
// Rejection sampling keeps the distribution unbiased for any max.
func RandomInt(max int) (int, error) {
	if max <= 0 {
		return 0, errors.New("max must be positive")
	}
	if max == 1 {
		return 0, nil
	}

	bits := 0
	for m := max - 1; m > 0; m >>= 1 {
		bits++
	}
	nbytes := (bits + 7) / 8
	mask := (1 << bits) - 1

	for {
		raw, err := SecureRandomBytes(nbytes)
		if err != nil {
			return 0, err
		}
		value := 0
		for _, b := range raw {
			value = value<<8 | int(b)
		}
		value &= mask
		if value < max {
			return value, nil
		}
	}
}

// ConstantTimeEqual compares two byte slices in constant time.
// Only the length of the inputs is leaked.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites a byte slice with zeros to clear derived key material.
// runtime.KeepAlive keeps the stores from being optimized away.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
