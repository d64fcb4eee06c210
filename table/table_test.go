package table

import (
	"errors"
	"strings"
	"testing"

	kisotope "github.com/BackendStack21/k-isotope-go"
	"github.com/BackendStack21/k-isotope-go/core"
)

func TestDeriveSeed(t *testing.T) {
	// Known answers: SHA-256("key_salt") reduced mod 10^8
	cases := []struct {
		masterKey string
		salt      string
		seed      uint64
	}{
		{"test", "abcd1234", 69314757},
		{"test", "abcd1235", 7043588},
		{"other", "abcd1234", 33600439},
		{"", "", 10397406},
		{"key", "salt", 17289314},
	}
	for _, c := range cases {
		seed := DeriveSeed(c.masterKey, c.salt)
		if seed != c.seed {
			t.Errorf("DeriveSeed(%q, %q) = %d, want %d", c.masterKey, c.salt, seed, c.seed)
		}
	}

	// Stable across calls
	for i := 0; i < 10; i++ {
		if DeriveSeed("test", "abcd1234") != 69314757 {
			t.Fatal("DeriveSeed is not stable")
		}
	}

	// Always below the modulus
	for _, salt := range []string{"a", "b", "c", "d", "e"} {
		if seed := DeriveSeed("bounds", salt); seed >= SeedModulus {
			t.Errorf("Seed %d exceeds modulus for salt %q", seed, salt)
		}
	}
}

func TestBuild(t *testing.T) {
	catalog, err := core.GenerateCatalog()
	if err != nil {
		t.Fatalf("GenerateCatalog failed: %v", err)
	}

	set, err := Build("test", "abcd1234", catalog)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if set.Seed != 69314757 {
		t.Errorf("Seed = %d, want 69314757", set.Seed)
	}
	if set.Table.Dims != [3]int{DimX, DimY, DimZ} {
		t.Errorf("Dims = %v, want [8 8 4]", set.Table.Dims)
	}
	if len(set.Table.Cells) != core.CatalogSize {
		t.Fatalf("Cell count = %d, want %d", len(set.Table.Cells), core.CatalogSize)
	}

	// The cells are a permutation of the catalog
	seen := make(map[string]bool, core.CatalogSize)
	for _, cell := range set.Table.Cells {
		seen[cell] = true
	}
	for _, symbol := range catalog {
		if !seen[symbol] {
			t.Errorf("Symbol %s missing from table", symbol)
		}
	}

	// The shuffle moved something
	if strings.Join(set.Table.Cells, " ") == strings.Join(catalog, " ") {
		t.Error("Table cells match catalog order; shuffle did nothing")
	}
}

func TestBuildSubstitution(t *testing.T) {
	catalog, err := core.GenerateCatalog()
	if err != nil {
		t.Fatalf("GenerateCatalog failed: %v", err)
	}
	set, err := Build("test", "abcd1234", catalog)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(set.Substitution) != core.CatalogSize {
		t.Errorf("Substitution has %d entries, want %d", len(set.Substitution), core.CatalogSize)
	}
	if len(set.Reverse) != core.CatalogSize {
		t.Errorf("Reverse has %d entries, want %d", len(set.Reverse), core.CatalogSize)
	}

	// Substitution pairing is over catalog order, independent of the shuffle:
	// index 0 pairs with index 73, chain digit (i*7)%10
	if got := set.Substitution["H1"]; got != "W1_0" {
		t.Errorf(`Substitution["H1"] = %q, want "W1_0"`, got)
	}
	if got := set.Substitution["He1"]; got != "Re1_7" {
		t.Errorf(`Substitution["He1"] = %q, want "Re1_7"`, got)
	}
	if got := set.Substitution["Ca5"]; got != "Ta1_5" {
		t.Errorf(`Substitution["Ca5"] = %q, want "Ta1_5"`, got)
	}

	// Reverse inverts every entry
	for symbol, label := range set.Substitution {
		back, ok := set.Reverse[label]
		if !ok {
			t.Fatalf("Label %q missing from reverse map", label)
		}
		if back != symbol {
			t.Fatalf("Reverse[%q] = %q, want %q", label, back, symbol)
		}
	}
}

func TestBuildDeterminism(t *testing.T) {
	catalog, err := core.GenerateCatalog()
	if err != nil {
		t.Fatalf("GenerateCatalog failed: %v", err)
	}

	a, err := Build("determinism", "feedf00d", catalog)
	if err != nil {
		t.Fatalf("First build failed: %v", err)
	}
	b, err := Build("determinism", "feedf00d", catalog)
	if err != nil {
		t.Fatalf("Second build failed: %v", err)
	}

	if a.Seed != b.Seed {
		t.Fatalf("Seeds differ: %d vs %d", a.Seed, b.Seed)
	}
	if strings.Join(a.Table.Cells, " ") != strings.Join(b.Table.Cells, " ") {
		t.Fatal("Cell order differs between identical builds")
	}
	for symbol, label := range a.Substitution {
		if b.Substitution[symbol] != label {
			t.Fatalf("Substitution differs at %q", symbol)
		}
	}
}

func TestBuildDistinctSalts(t *testing.T) {
	catalog, err := core.GenerateCatalog()
	if err != nil {
		t.Fatalf("GenerateCatalog failed: %v", err)
	}

	a, err := Build("test", "abcd1234", catalog)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, err := Build("test", "abcd1235", catalog)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if a.Seed == b.Seed {
		t.Fatal("Distinct salts derived the same seed")
	}
	if strings.Join(a.Table.Cells, " ") == strings.Join(b.Table.Cells, " ") {
		t.Error("Distinct salts produced identical tables")
	}
}

func TestBuildRejectsBadCatalog(t *testing.T) {
	catalog, err := core.GenerateCatalog()
	if err != nil {
		t.Fatalf("GenerateCatalog failed: %v", err)
	}

	if _, err := Build("test", "abcd1234", catalog[:100]); err == nil {
		t.Error("Build should reject a short catalog")
	} else if !errors.Is(err, kisotope.ErrIntegrity) {
		t.Errorf("Expected ErrIntegrity, got %v", err)
	}

	dup := make(kisotope.Catalog, len(catalog))
	copy(dup, catalog)
	dup[10] = dup[20]
	if _, err := Build("test", "abcd1234", dup); err == nil {
		t.Error("Build should reject a duplicate symbol")
	} else if !errors.Is(err, kisotope.ErrIntegrity) {
		t.Errorf("Expected ErrIntegrity, got %v", err)
	}
}
