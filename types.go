// Package kisotope implements the kISOTOPE reversible text obfuscation scheme.
//
// kISOTOPE (Keyed Isotope Symbol Table Obfuscation with Positional Encoding)
// maps every character onto a deterministic, key-seeded 3-dimensional table of
// isotope-style symbols, pairs each symbol with a partner symbol and a chain
// digit, and encodes the partner's position in a timestamp-rotated copy of
// the table.
//
// WARNING: This is a toy obfuscation scheme and NOT a cryptographic cipher.
// The construction uses no vetted primitive and its parameter space is tiny.
// DO NOT use it to protect sensitive data.
package kisotope

import "errors"

// =============================================================================
// Catalog Types
// =============================================================================

// Catalog is the ordered list of all symbols. The index of a symbol is
// meaningful: it is the character code the symbol stands for.
type Catalog []string

// =============================================================================
// Table Types
// =============================================================================

// Table is a seeded arrangement of all catalog symbols in a 3-dimensional
// grid. Cells holds the symbols flattened row-major: the symbol at
// coordinates (x, y, z) lives at Cells[(x*Dims[1]+y)*Dims[2]+z].
type Table struct {
	Cells []string
	Dims  [3]int
}

// =============================================================================
// Rotation Types
// =============================================================================

// RotationParams selects the deterministic rotation applied to a Table
// before each transform call.
type RotationParams struct {
	Axis      int `json:"axis"`      // First axis of the rotation plane (0-2)
	Magnitude int `json:"magnitude"` // Quarter turns, reduced mod 4 when applied
}

// =============================================================================
// Composite Build Product
// =============================================================================

// TableSet is the complete build product for one (master key, salt) pair.
type TableSet struct {
	Seed         uint64            // Derived shuffle seed
	Table        Table             // Shuffled 8x8x4 symbol table
	Substitution map[string]string // symbol -> "partner_chainDigit"
	Reverse      map[string]string // "partner_chainDigit" -> symbol
}

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrIntegrity indicates catalog or substitution construction violated
	// a structural invariant. It is fatal at construction time.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrInvalidTimestamp indicates rotation parameters could not be
	// derived from a timestamp.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)
