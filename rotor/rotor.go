// Package rotor derives rotation parameters from timestamps and applies
// plane rotations to symbol tables.
package rotor

import (
	"fmt"
	"unicode/utf8"

	kisotope "github.com/BackendStack21/k-isotope-go"
)

// DeriveParams extracts rotation parameters from a timestamp string. The
// final rune selects the rotation axis (its digit value mod 3) and the sum
// of all decimal digits in the string is the magnitude; other runes are
// ignored for the sum. The final rune must be a decimal digit, otherwise
// ErrInvalidTimestamp is returned.
func DeriveParams(timestamp string) (kisotope.RotationParams, error) {
	if timestamp == "" {
		return kisotope.RotationParams{}, fmt.Errorf("empty timestamp: %w", kisotope.ErrInvalidTimestamp)
	}
	last, _ := utf8.DecodeLastRuneInString(timestamp)
	if last < '0' || last > '9' {
		return kisotope.RotationParams{}, fmt.Errorf("timestamp %q does not end in a digit: %w",
			timestamp, kisotope.ErrInvalidTimestamp)
	}

	magnitude := 0
	for _, r := range timestamp {
		if r >= '0' && r <= '9' {
			magnitude += int(r - '0')
		}
	}

	return kisotope.RotationParams{
		Axis:      int(last-'0') % 3,
		Magnitude: magnitude,
	}, nil
}

// Rotate returns a copy of t turned by p.Magnitude quarter turns in the
// plane spanned by axis p.Axis and the next axis (p.Axis+1 mod 3). The two
// plane dimensions swap on odd turn counts. The input table is never
// modified; rotating the result a further 4-(magnitude mod 4) turns in the
// same plane restores the original cell order.
func Rotate(t kisotope.Table, p kisotope.RotationParams) kisotope.Table {
	a := ((p.Axis % 3) + 3) % 3
	b := (a + 1) % 3
	turns := ((p.Magnitude % 4) + 4) % 4

	cells := make([]string, len(t.Cells))
	copy(cells, t.Cells)
	dims := t.Dims
	for i := 0; i < turns; i++ {
		cells, dims = rotateOnce(cells, dims, a, b)
	}
	return kisotope.Table{Cells: cells, Dims: dims}
}

// rotateOnce applies a single quarter turn in the (a, b) plane. The cell
// at source coordinates (q on axis a, dims[b]-1-p on axis b) moves to
// destination (p on axis a, q on axis b); the a and b dimensions swap.
func rotateOnce(cells []string, dims [3]int, a, b int) ([]string, [3]int) {
	outDims := dims
	outDims[a], outDims[b] = dims[b], dims[a]

	out := make([]string, len(cells))
	for x := 0; x < outDims[0]; x++ {
		for y := 0; y < outDims[1]; y++ {
			for z := 0; z < outDims[2]; z++ {
				idx := [3]int{x, y, z}
				src := idx
				src[a] = idx[b]
				src[b] = dims[b] - 1 - idx[a]
				srcFlat := (src[0]*dims[1]+src[1])*dims[2] + src[2]
				dstFlat := (x*outDims[1]+y)*outDims[2] + z
				out[dstFlat] = cells[srcFlat]
			}
		}
	}
	return out, outDims
}
