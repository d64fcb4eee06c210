package table

import (
	"math/big"

	"github.com/BackendStack21/k-isotope-go/utils"
)

// SeedModulus bounds derived seeds to 8 decimal digits.
const SeedModulus = 100000000

// DeriveSeed computes the shuffle seed for a (master key, salt) pair: the
// SHA-256 digest of "masterKey_salt", read as a big-endian integer and
// reduced modulo SeedModulus.
func DeriveSeed(masterKey, salt string) uint64 {
	digest := utils.SHA256([]byte(masterKey + "_" + salt))
	n := new(big.Int).SetBytes(digest)
	n.Mod(n, big.NewInt(SeedModulus))
	seed := n.Uint64()
	utils.Zeroize(digest)
	return seed
}
