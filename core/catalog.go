// Package core provides the fixed symbol catalog for kISOTOPE.
package core

import (
	"fmt"
	"strconv"

	kisotope "github.com/BackendStack21/k-isotope-go"
)

// CatalogSize is the number of symbols in a catalog, one per character code.
const CatalogSize = 256

// ElementCodes lists the 118 chemical element abbreviations in atomic-number
// order. Catalog symbols cycle through this list with increasing odd mass
// numbers.
var ElementCodes = [...]string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// GenerateCatalog builds the ordered symbol catalog. Symbol i joins the
// element code at position i mod 118 with the odd mass number 2*(i div 118)+1,
// so the second cycle of element codes carries mass 3 instead of mass 1.
// The result is validated before it is returned.
func GenerateCatalog() (kisotope.Catalog, error) {
	catalog := make(kisotope.Catalog, CatalogSize)
	for i := range catalog {
		mass := 2*(i/len(ElementCodes)) + 1
		catalog[i] = ElementCodes[i%len(ElementCodes)] + strconv.Itoa(mass)
	}
	if err := ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ValidateCatalog checks the structural invariants of a catalog: exactly
// CatalogSize symbols, none empty, all pairwise distinct.
func ValidateCatalog(catalog kisotope.Catalog) error {
	if len(catalog) != CatalogSize {
		return fmt.Errorf("catalog holds %d symbols, want %d: %w", len(catalog), CatalogSize, kisotope.ErrIntegrity)
	}
	seen := make(map[string]int, CatalogSize)
	for i, symbol := range catalog {
		if symbol == "" {
			return fmt.Errorf("catalog symbol %d is empty: %w", i, kisotope.ErrIntegrity)
		}
		if j, dup := seen[symbol]; dup {
			return fmt.Errorf("catalog symbols %d and %d collide on %q: %w", j, i, symbol, kisotope.ErrIntegrity)
		}
		seen[symbol] = i
	}
	return nil
}
