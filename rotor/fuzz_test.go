package rotor

import (
	"testing"
)

// FuzzDeriveParams exercises timestamp parsing with arbitrary strings
func FuzzDeriveParams(f *testing.F) {
	// Add seed corpus
	f.Add("")
	f.Add("20240101120000")
	f.Add("2024-01-01T12:00:00Z")
	f.Add("abc")
	f.Add("\xff\xfe7")
	f.Add("000000000000000000000000")

	f.Fuzz(func(t *testing.T, timestamp string) {
		// Should not panic; derived values stay in range
		params, err := DeriveParams(timestamp)
		if err != nil {
			return
		}
		if params.Axis < 0 || params.Axis > 2 {
			t.Errorf("axis %d out of range for %q", params.Axis, timestamp)
		}
		if params.Magnitude < 0 {
			t.Errorf("negative magnitude %d for %q", params.Magnitude, timestamp)
		}
	})
}
