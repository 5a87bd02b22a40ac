package azimuthal

import (
	"math"
	"testing"
)

func diskMask(size, cx, cy int, radius float64) Mask {
	mask := make(Mask, size)
	for y := 0; y < size; y++ {
		mask[y] = make([]bool, size)
		for x := 0; x < size; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			mask[y][x] = math.Sqrt(dx*dx+dy*dy) <= radius
		}
	}
	return mask
}

// TestTraceContourDisk traces a filled disk of radius 10 and checks closure and radius.
// Pixel centres within 10.5 of the centre are filled, i.e. the digitised disk of radius 10.
func TestTraceContourDisk(t *testing.T) {
	mask := diskMask(100, 50, 50, 10.5)
	poly := TraceContour(mask)

	n := poly.Len()
	if n < 10 {
		t.Fatalf("Expected a contour, got %d points", n)
	}
	if poly.X[0] != poly.X[n-1] || poly.Y[0] != poly.Y[n-1] {
		t.Errorf("Expected closed contour, first (%f,%f) last (%f,%f)", poly.X[0], poly.Y[0], poly.X[n-1], poly.Y[n-1])
	}
	for i := 0; i < n; i++ {
		d := math.Hypot(poly.X[i]-50, poly.Y[i]-50)
		if d < 9 || d > 11 {
			t.Errorf("Point %d (%f,%f) at distance %f, expected within [9,11]", i, poly.X[i], poly.Y[i], d)
		}
	}

	// Every boundary pixel appears exactly once (plus the closing repeat)
	if want := len(boundaryPixels(mask)) + 1; n != want {
		t.Errorf("Expected %d points, got %d", want, n)
	}
}

func TestTraceContourGreedyOrder(t *testing.T) {
	// Four isolated corner pixels. From (0,0) both (2,0) and (0,2) are 2 away;
	// the earlier one in row-major order wins.
	mask := Mask{
		{true, false, true},
		{false, false, false},
		{true, false, true},
	}
	poly := TraceContour(mask)
	wantX := []float64{0, 2, 2, 0, 0}
	wantY := []float64{0, 0, 2, 2, 0}
	if poly.Len() != len(wantX) {
		t.Fatalf("Expected %d points, got %d", len(wantX), poly.Len())
	}
	for i := range wantX {
		if poly.X[i] != wantX[i] || poly.Y[i] != wantY[i] {
			t.Errorf("Point %d: expected (%f,%f), got (%f,%f)", i, wantX[i], wantY[i], poly.X[i], poly.Y[i])
		}
	}
}

func TestTraceContourEdgeCases(t *testing.T) {
	if got := TraceContour(Mask{}); got.Len() != 0 {
		t.Errorf("Expected empty contour for empty mask, got %v", got)
	}
	if got := TraceContour(Mask{{false, false}, {false, false}}); got.Len() != 0 {
		t.Errorf("Expected empty contour for all-out mask, got %v", got)
	}

	// A full grid: every edge pixel touches off-grid, interior pixels do not
	full := Mask{
		{true, true, true},
		{true, true, true},
		{true, true, true},
	}
	if IsBoundary(full, 1, 1) {
		t.Error("Centre of a full 3x3 mask is not a boundary pixel")
	}
	if !IsBoundary(full, 0, 1) {
		t.Error("Edge pixel of a full mask is a boundary pixel")
	}
	if got := TraceContour(full); got.Len() != 9 {
		t.Errorf("Expected 8 boundary pixels plus closure, got %d", got.Len())
	}

	single := Mask{{false, false, false}, {false, true, false}, {false, false, false}}
	got := TraceContour(single)
	if got.Len() != 2 || got.X[0] != 1 || got.Y[1] != 1 {
		t.Errorf("Expected single pixel repeated, got %v", got)
	}
}
