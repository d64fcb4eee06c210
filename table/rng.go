package table

import (
	"encoding/binary"
	"math"

	"github.com/BackendStack21/k-isotope-go/utils"
)

// DomainShuffle separates the shuffle stream from any other use of the XOF.
const DomainShuffle = "kisotope-shuffle-v1"

// rngBlockSize is the number of stream bytes drawn per refill.
const rngBlockSize = 1024

// Generator is the deterministic draw source for table construction. The
// builder owns one per build; no other randomness feeds the shuffle. The
// stream is SHAKE256 over the seed plus a refill counter, so draws for a
// seed are reproducible across runs and platforms.
type Generator struct {
	seed    [8]byte
	counter uint32
	buf     []byte
	off     int
}

// NewGenerator returns a Generator positioned at the start of the stream
// for seed.
func NewGenerator(seed uint64) *Generator {
	g := &Generator{}
	binary.LittleEndian.PutUint64(g.seed[:], seed)
	g.refill()
	return g
}

func (g *Generator) refill() {
	material := make([]byte, 12)
	copy(material, g.seed[:])
	binary.LittleEndian.PutUint32(material[8:], g.counter)
	g.counter++
	g.buf = utils.Shake256WithDomain(DomainShuffle, material, rngBlockSize)
	g.off = 0
}

// Uint64 draws the next 8 stream bytes as a little-endian integer.
func (g *Generator) Uint64() uint64 {
	if g.off+8 > len(g.buf) {
		g.refill()
	}
	v := binary.LittleEndian.Uint64(g.buf[g.off:])
	g.off += 8
	return v
}

// Uint64N draws a uniform integer in [0, n). Rejection sampling keeps the
// draw unbiased for every n. Panics if n is zero.
func (g *Generator) Uint64N(n uint64) uint64 {
	if n == 0 {
		panic("Uint64N: n must be positive")
	}
	// Largest multiple of n representable in 64 bits; draws at or above
	// it would bias the reduction and are rejected.
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		v := g.Uint64()
		if v < limit {
			return v % n
		}
	}
}

// Intn draws a uniform int in [0, n). Panics if n is not positive.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		panic("Intn: n must be positive")
	}
	return int(g.Uint64N(uint64(n)))
}

// Shuffle permutes symbols in place with a Fisher-Yates walk driven by the
// stream: for i from len-1 down to 1, swap position i with a uniform draw
// from [0, i].
func (g *Generator) Shuffle(symbols []string) {
	for i := len(symbols) - 1; i > 0; i-- {
		j := g.Intn(i + 1)
		symbols[i], symbols[j] = symbols[j], symbols[i]
	}
}
