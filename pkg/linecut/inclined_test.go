package linecut

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/geometry"
)

func TestNormalizeAngle(t *testing.T) {
	cases := map[float64]float64{
		0: 0, 90: 90, -90: -90, 270: -90, -270: 90, 450: 90, 179: 179, 181: -179, 720: 0,
	}
	for in, want := range cases {
		if got := NormalizeAngle(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("NormalizeAngle(%f): expected %f, got %f", in, want, got)
		}
	}
}

func TestIsNearVertical(t *testing.T) {
	for _, a := range []float64{90, -90, 89.2, 90.9, -89.5, 270} {
		if !IsNearVertical(a) {
			t.Errorf("Expected %f to be near vertical", a)
		}
	}
	for _, a := range []float64{0, 45, 88.5, -91.5, 180} {
		if IsNearVertical(a) {
			t.Errorf("Expected %f not to be near vertical", a)
		}
	}
}

// TestSampleInclinedVertical samples a constant image straight down the middle
func TestSampleInclinedVertical(t *testing.T) {
	img := createTestImage(100, 100, func(r, c int) float64 { return 7 })

	s := SampleInclinedWithPositions(img, vec.Vec2{X: 50, Y: 50}, 90, 0)
	if len(s.Intensity) != 100 {
		t.Fatalf("Expected 100 samples, got %d", len(s.Intensity))
	}
	for i, v := range s.Intensity {
		if v != 7 {
			t.Errorf("Sample %d: expected 7, got %f", i, v)
		}
	}
	if !(s.Y[0] < s.Y[len(s.Y)-1]) {
		t.Errorf("Expected top-to-bottom ordering, first y=%f last y=%f", s.Y[0], s.Y[len(s.Y)-1])
	}

	// -90 gives the same ordering
	s = SampleInclinedWithPositions(img, vec.Vec2{X: 50, Y: 50}, -90, 0)
	if !(s.Y[0] < s.Y[len(s.Y)-1]) {
		t.Errorf("Expected top-to-bottom ordering at -90, first y=%f last y=%f", s.Y[0], s.Y[len(s.Y)-1])
	}
}

func TestSampleInclinedHorizontalMatchesRow(t *testing.T) {
	img := createTestImage(40, 60, gradient)

	got := SampleInclined(img, vec.Vec2{X: 20, Y: 10}, 0, 0)
	if len(got) != 60 {
		t.Fatalf("Expected 60 samples, got %d", len(got))
	}
	for c, v := range got {
		if v != img[10][c] {
			t.Errorf("Col %d: expected %f, got %f", c, img[10][c], v)
		}
	}

	// 180 degrees runs right-to-left but is reordered left-to-right
	got = SampleInclined(img, vec.Vec2{X: 20, Y: 10}, 180, 0)
	if got[0] != img[10][0] {
		t.Errorf("Expected left-to-right ordering at 180, first sample %f", got[0])
	}
}

func TestSampleInclinedWidthAverages(t *testing.T) {
	img := createTestImage(30, 30, gradient)

	// Horizontal line at row 10, width 2: offsets -1, 0, +1 rows
	got := SampleInclined(img, vec.Vec2{X: 15, Y: 10}, 0, 2)
	want := (img[9][5] + img[10][5] + img[11][5]) / 3
	if math.Abs(got[5]-want) > 1e-9 {
		t.Errorf("Expected %f, got %f", want, got[5])
	}

	// At row 0 the upper offset falls off the image and is skipped
	got = SampleInclined(img, vec.Vec2{X: 15, Y: 0}, 0, 2)
	want = (img[0][5] + img[1][5]) / 2
	if math.Abs(got[5]-want) > 1e-9 {
		t.Errorf("Edge: expected %f, got %f", want, got[5])
	}
}

func TestSampleInclinedDiagonal(t *testing.T) {
	img := createTestImage(50, 50, func(r, c int) float64 { return 1 })
	s := SampleInclinedWithPositions(img, vec.Vec2{X: 25, Y: 25}, 45, 0)

	if n := len(s.Intensity); n != int(math.Ceil(50*math.Sqrt2)) {
		t.Errorf("Expected %d samples, got %d", int(math.Ceil(50*math.Sqrt2)), n)
	}
	if !(s.X[0] < s.X[len(s.X)-1]) {
		t.Error("Expected left-to-right ordering")
	}
	for i, v := range s.Intensity {
		if v != 0 && v != 1 {
			t.Errorf("Sample %d: expected 1 (or 0 off-image), got %f", i, v)
		}
	}
	// The very first step sits on the bottom-left corner, outside the last row
	if s.Intensity[1] != 1 {
		t.Errorf("Expected second sample inside the image, got %f", s.Intensity[1])
	}
}

func TestOrderEndpoints(t *testing.T) {
	seg := geometry.Segment{P0: vec.Vec2{X: 10, Y: 90}, P1: vec.Vec2{X: 11, Y: 0}}
	got := OrderEndpoints(seg, 89.5)
	if got.P0.Y != 0 {
		t.Errorf("Expected near-vertical ordering by y, got %v", got)
	}
	got = OrderEndpoints(seg, 80)
	if got.P0.X != 10 {
		t.Errorf("Expected ordering by x, got %v", got)
	}
}

// TestSignedQRadialContinuityThroughVertical sweeps the angle past 90 and
// checks the sign of points above the beam never flips inside the tolerance band
func TestSignedQRadialContinuityThroughVertical(t *testing.T) {
	qv := models.QVectors{QX: make([]float64, 100), QY: make([]float64, 100)}
	for i := 0; i < 100; i++ {
		qv.QX[i] = float64(i-50) * 0.01
		qv.QY[i] = float64(i-50) * 0.01
	}
	beamX, beamY := 50.0, 50.0

	for _, angle := range []float64{89.0, 89.5, 90, 90.5, 91.0} {
		above := SignedQRadial(50.3, 20, angle, qv, beamX, beamY)
		below := SignedQRadial(49.7, 80, angle, qv, beamX, beamY)
		if above >= 0 || below <= 0 {
			t.Errorf("Angle %f: expected negative above and positive below, got %f / %f", angle, above, below)
		}
		if math.Abs(above-(-0.3)) > 1e-9 {
			t.Errorf("Angle %f: expected qY difference -0.3, got %f", angle, above)
		}
	}

	// Away from vertical the sign follows the column
	left := SignedQRadial(20, 50, 0, qv, beamX, beamY)
	right := SignedQRadial(80, 50, 0, qv, beamX, beamY)
	if math.Abs(left+0.3) > 1e-9 || math.Abs(right-0.3) > 1e-9 {
		t.Errorf("Expected -0.3 and 0.3, got %f and %f", left, right)
	}

	diag := SignedQRadial(80, 10, 30, qv, beamX, beamY)
	if want := math.Hypot(0.3, 0.4); math.Abs(diag-want) > 1e-9 {
		t.Errorf("Expected %f, got %f", want, diag)
	}

	// Without q-vectors the same rules apply in pixels
	if got := SignedQRadial(10, 20, 90, models.QVectors{}, beamX, beamY); got != -30 {
		t.Errorf("Expected -30 pixel offset, got %f", got)
	}
}

func TestSampleInclinedProfile(t *testing.T) {
	img := createTestImage(60, 60, func(r, c int) float64 { return 2 })
	lc := models.InclinedLinecut{XPosition: 30, YPosition: 30, Angle: 0, Width: 0}
	cal := models.CalibrationParams{BeamCenterX: 30, BeamCenterY: 30}

	prof := SampleInclinedProfile(img, lc, models.QVectors{}, cal)
	if len(prof.QRadial) != len(prof.Intensity) || len(prof.Intensity) != 60 {
		t.Fatalf("Expected 60 samples with q axis, got %d / %d", len(prof.Intensity), len(prof.QRadial))
	}
	if prof.QRadial[0] != -30 || prof.QRadial[59] != 29 {
		t.Errorf("Expected axis from -30 to 29, got %f .. %f", prof.QRadial[0], prof.QRadial[59])
	}
}
