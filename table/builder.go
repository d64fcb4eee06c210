// Package table derives the seeded symbol table and substitution maps for
// kISOTOPE. A (master key, salt) pair deterministically fixes everything
// built here.
package table

import (
	"fmt"
	"strconv"

	kisotope "github.com/BackendStack21/k-isotope-go"
	"github.com/BackendStack21/k-isotope-go/core"
)

// Table geometry and substitution constants.
const (
	DimX = 8
	DimY = 8
	DimZ = 4

	// PairOffset is the catalog index distance between a symbol and its
	// partner.
	PairOffset = 73

	// ChainStep and ChainModulus derive the chain digit for catalog index
	// i as (i*ChainStep)%ChainModulus.
	ChainStep    = 7
	ChainModulus = 10
)

// Build derives the complete table set for a (master key, salt) pair: the
// seed, the shuffled 8x8x4 table, and the substitution maps. Identical
// inputs always produce an identical set. Build fails with ErrIntegrity if
// the catalog is malformed or a substitution label collides.
func Build(masterKey, salt string, catalog kisotope.Catalog) (*kisotope.TableSet, error) {
	if err := core.ValidateCatalog(catalog); err != nil {
		return nil, err
	}

	seed := DeriveSeed(masterKey, salt)

	cells := make([]string, len(catalog))
	copy(cells, catalog)
	NewGenerator(seed).Shuffle(cells)

	// The shuffled slice is already the row-major flattening of the
	// 8x8x4 grid: flat index k sits at (k/32, (k/8)%8, k%4).
	tbl := kisotope.Table{Cells: cells, Dims: [3]int{DimX, DimY, DimZ}}

	substitution := make(map[string]string, len(catalog))
	reverse := make(map[string]string, len(catalog))
	for i, symbol := range catalog {
		partner := catalog[(i+PairOffset)%len(catalog)]
		label := partner + "_" + strconv.Itoa((i*ChainStep)%ChainModulus)
		if prev, dup := reverse[label]; dup {
			return nil, fmt.Errorf("substitution label %q claimed by both %q and %q: %w",
				label, prev, symbol, kisotope.ErrIntegrity)
		}
		substitution[symbol] = label
		reverse[label] = symbol
	}

	return &kisotope.TableSet{
		Seed:         seed,
		Table:        tbl,
		Substitution: substitution,
		Reverse:      reverse,
	}, nil
}
