package rotor

import (
	"errors"
	"strconv"
	"testing"

	kisotope "github.com/BackendStack21/k-isotope-go"
)

func TestDeriveParams(t *testing.T) {
	cases := []struct {
		timestamp string
		axis      int
		magnitude int
	}{
		{"20240101120000", 0, 13},
		{"20240101120001", 1, 14},
		{"20240101120002", 2, 15},
		{"abc5", 2, 5},
		{"999", 0, 27},
		{"0", 0, 0},
		{"x1y2z3", 0, 6},
	}

	for _, c := range cases {
		params, err := DeriveParams(c.timestamp)
		if err != nil {
			t.Errorf("DeriveParams(%q) failed: %v", c.timestamp, err)
			continue
		}
		if params.Axis != c.axis {
			t.Errorf("DeriveParams(%q) axis = %d, want %d", c.timestamp, params.Axis, c.axis)
		}
		if params.Magnitude != c.magnitude {
			t.Errorf("DeriveParams(%q) magnitude = %d, want %d", c.timestamp, params.Magnitude, c.magnitude)
		}
	}
}

func TestDeriveParamsInvalid(t *testing.T) {
	for _, timestamp := range []string{"", "2024-01-01T12:00:00Z", "abc", "123x", "12 "} {
		_, err := DeriveParams(timestamp)
		if err == nil {
			t.Errorf("DeriveParams(%q) should fail", timestamp)
			continue
		}
		if !errors.Is(err, kisotope.ErrInvalidTimestamp) {
			t.Errorf("DeriveParams(%q): expected ErrInvalidTimestamp, got %v", timestamp, err)
		}
	}
}

func TestRotateSquarePlane(t *testing.T) {
	// 2x2x1 table rotated in the (0, 1) plane
	tbl := kisotope.Table{
		Cells: []string{"a", "b", "c", "d"},
		Dims:  [3]int{2, 2, 1},
	}

	quarter := Rotate(tbl, kisotope.RotationParams{Axis: 0, Magnitude: 1})
	want := []string{"b", "d", "a", "c"}
	for i, cell := range quarter.Cells {
		if cell != want[i] {
			t.Errorf("Quarter turn cell %d = %s, want %s", i, cell, want[i])
		}
	}

	half := Rotate(tbl, kisotope.RotationParams{Axis: 0, Magnitude: 2})
	want = []string{"d", "c", "b", "a"}
	for i, cell := range half.Cells {
		if cell != want[i] {
			t.Errorf("Half turn cell %d = %s, want %s", i, cell, want[i])
		}
	}

	full := Rotate(tbl, kisotope.RotationParams{Axis: 0, Magnitude: 4})
	for i, cell := range full.Cells {
		if cell != tbl.Cells[i] {
			t.Errorf("Full turn cell %d = %s, want %s", i, cell, tbl.Cells[i])
		}
	}
}

func TestRotateRectangularPlane(t *testing.T) {
	// 1x2x3 table rotated in the (1, 2) plane; the plane dims swap
	tbl := kisotope.Table{
		Cells: []string{"0", "1", "2", "3", "4", "5"},
		Dims:  [3]int{1, 2, 3},
	}

	rotated := Rotate(tbl, kisotope.RotationParams{Axis: 1, Magnitude: 1})
	if rotated.Dims != [3]int{1, 3, 2} {
		t.Fatalf("Rotated dims = %v, want [1 3 2]", rotated.Dims)
	}
	want := []string{"2", "5", "1", "4", "0", "3"}
	for i, cell := range rotated.Cells {
		if cell != want[i] {
			t.Errorf("Rotated cell %d = %s, want %s", i, cell, want[i])
		}
	}
}

func testTable() kisotope.Table {
	cells := make([]string, 256)
	for i := range cells {
		cells[i] = "s" + strconv.Itoa(i)
	}
	return kisotope.Table{Cells: cells, Dims: [3]int{8, 8, 4}}
}

func TestRotateShapes(t *testing.T) {
	tbl := testTable()

	shapes := map[int][3]int{
		0: {8, 8, 4}, // plane (0,1) is square
		1: {8, 4, 8}, // plane (1,2) swaps 8 and 4
		2: {4, 8, 8}, // plane (2,0) swaps 4 and 8
	}
	for axis, want := range shapes {
		rotated := Rotate(tbl, kisotope.RotationParams{Axis: axis, Magnitude: 1})
		if rotated.Dims != want {
			t.Errorf("Axis %d dims = %v, want %v", axis, rotated.Dims, want)
		}
		if len(rotated.Cells) != len(tbl.Cells) {
			t.Errorf("Axis %d cell count = %d, want %d", axis, len(rotated.Cells), len(tbl.Cells))
		}
	}

	// Even turn counts restore the shape
	for axis := 0; axis < 3; axis++ {
		rotated := Rotate(tbl, kisotope.RotationParams{Axis: axis, Magnitude: 2})
		if rotated.Dims != tbl.Dims {
			t.Errorf("Axis %d half turn dims = %v, want %v", axis, rotated.Dims, tbl.Dims)
		}
	}
}

func TestRotatePermutation(t *testing.T) {
	tbl := testTable()

	for axis := 0; axis < 3; axis++ {
		rotated := Rotate(tbl, kisotope.RotationParams{Axis: axis, Magnitude: 3})
		seen := make(map[string]bool, len(rotated.Cells))
		for _, cell := range rotated.Cells {
			seen[cell] = true
		}
		if len(seen) != len(tbl.Cells) {
			t.Errorf("Axis %d rotation lost cells: %d unique of %d", axis, len(seen), len(tbl.Cells))
		}
	}
}

func TestRotateInvertibility(t *testing.T) {
	tbl := testTable()

	for axis := 0; axis < 3; axis++ {
		for magnitude := 0; magnitude < 8; magnitude++ {
			rotated := Rotate(tbl, kisotope.RotationParams{Axis: axis, Magnitude: magnitude})
			restored := Rotate(rotated, kisotope.RotationParams{Axis: axis, Magnitude: 4 - magnitude%4})
			if restored.Dims != tbl.Dims {
				t.Fatalf("Axis %d magnitude %d: restored dims %v", axis, magnitude, restored.Dims)
			}
			for i, cell := range restored.Cells {
				if cell != tbl.Cells[i] {
					t.Fatalf("Axis %d magnitude %d: cell %d = %s, want %s",
						axis, magnitude, i, cell, tbl.Cells[i])
				}
			}
		}
	}
}

func TestRotatePure(t *testing.T) {
	tbl := testTable()
	snapshot := make([]string, len(tbl.Cells))
	copy(snapshot, tbl.Cells)

	_ = Rotate(tbl, kisotope.RotationParams{Axis: 1, Magnitude: 3})

	for i, cell := range tbl.Cells {
		if cell != snapshot[i] {
			t.Fatalf("Rotate mutated its input at cell %d", i)
		}
	}
}

func TestRotateNormalization(t *testing.T) {
	tbl := testTable()

	// Axis and magnitude reduce mod 3 and mod 4
	a := Rotate(tbl, kisotope.RotationParams{Axis: 4, Magnitude: 5})
	b := Rotate(tbl, kisotope.RotationParams{Axis: 1, Magnitude: 1})
	if a.Dims != b.Dims {
		t.Fatalf("Dims diverged: %v vs %v", a.Dims, b.Dims)
	}
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			t.Fatalf("Axis/magnitude normalization diverged at cell %d", i)
		}
	}
}
