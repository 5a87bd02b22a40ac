package linecut

import (
	"math"
	"testing"

	"saxslinecut/internal/models"
)

// createTestImage builds a rows x cols image from a pattern function
func createTestImage(rows, cols int, pattern func(r, c int) float64) models.Image {
	img := make(models.Image, rows)
	for r := 0; r < rows; r++ {
		img[r] = make([]float64, cols)
		for c := 0; c < cols; c++ {
			img[r][c] = pattern(r, c)
		}
	}
	return img
}

func gradient(r, c int) float64 { return float64(r*1000 + c) }

func TestSampleHorizontalZeroWidth(t *testing.T) {
	img := createTestImage(20, 15, gradient)
	for _, row := range []int{0, 7, 19} {
		got := SampleHorizontal(img, float64(row), 0)
		if len(got) != 15 {
			t.Fatalf("Expected 15 values, got %d", len(got))
		}
		for c := range got {
			if got[c] != img[row][c] {
				t.Errorf("Row %d col %d: expected %f, got %f", row, c, img[row][c], got[c])
			}
		}
	}
}

// TestSampleHorizontalAverage checks a width-10 cut at row 50 averages rows 45..55
func TestSampleHorizontalAverage(t *testing.T) {
	img := createTestImage(100, 100, func(r, c int) float64 { return float64(r*r + c) })

	got := SampleHorizontal(img, 50, 10)
	for c := 0; c < 100; c++ {
		sum := 0.0
		for r := 45; r <= 55; r++ {
			sum += img[r][c]
		}
		want := sum / 11
		if math.Abs(got[c]-want) > 1e-9 {
			t.Errorf("Col %d: expected %f, got %f", c, want, got[c])
		}
	}

	// Near the top edge the band narrows: rows 0..5
	got = SampleHorizontal(img, 0, 10)
	for c := 0; c < 100; c++ {
		sum := 0.0
		for r := 0; r <= 5; r++ {
			sum += img[r][c]
		}
		if want := sum / 6; math.Abs(got[c]-want) > 1e-9 {
			t.Errorf("Top edge col %d: expected %f, got %f", c, want, got[c])
		}
	}

	// Near the bottom edge: rows 94..99
	got = SampleHorizontal(img, 99, 10)
	sum := 0.0
	for r := 94; r <= 99; r++ {
		sum += img[r][3]
	}
	if want := sum / 6; math.Abs(got[3]-want) > 1e-9 {
		t.Errorf("Bottom edge: expected %f, got %f", want, got[3])
	}
}

func TestSampleVertical(t *testing.T) {
	img := createTestImage(10, 12, gradient)

	got := SampleVertical(img, 4, 0)
	if len(got) != 10 {
		t.Fatalf("Expected 10 values, got %d", len(got))
	}
	for r := range got {
		if got[r] != img[r][4] {
			t.Errorf("Row %d: expected %f, got %f", r, img[r][4], got[r])
		}
	}

	// floor(4.5-1)=3, ceil(4.5+1)=6: columns 3..6
	got = SampleVertical(img, 4.5, 2)
	for r := range got {
		want := (img[r][3] + img[r][4] + img[r][5] + img[r][6]) / 4
		if math.Abs(got[r]-want) > 1e-9 {
			t.Errorf("Row %d: expected %f, got %f", r, want, got[r])
		}
	}

	// Right edge clamps to column 11
	got = SampleVertical(img, 11, 4)
	want := (img[2][9] + img[2][10] + img[2][11]) / 3
	if math.Abs(got[2]-want) > 1e-9 {
		t.Errorf("Right edge: expected %f, got %f", want, got[2])
	}
}

func TestSampleEmptyImage(t *testing.T) {
	if got := SampleHorizontal(nil, 3, 2); len(got) != 0 {
		t.Errorf("Expected empty horizontal sample, got %v", got)
	}
	if got := SampleVertical(models.Image{}, 3, 2); len(got) != 0 {
		t.Errorf("Expected empty vertical sample, got %v", got)
	}
}

func TestAxisValues(t *testing.T) {
	axis := AxisValues(3, []float64{0.1, 0.2, 0.3, 0.4})
	if axis[2] != 0.3 || len(axis) != 3 {
		t.Errorf("Expected q axis prefix, got %v", axis)
	}
	axis = AxisValues(3, []float64{0.1})
	if axis[0] != 0 || axis[2] != 2 {
		t.Errorf("Expected pixel index axis, got %v", axis)
	}
}

func TestResolveAndSampleLinecut(t *testing.T) {
	img := createTestImage(100, 80, gradient)
	qv := models.QVectors{QX: make([]float64, 80), QY: make([]float64, 100)}
	for i := range qv.QX {
		qv.QX[i] = float64(i) * 0.5
	}
	for i := range qv.QY {
		qv.QY[i] = float64(i) * 0.1
	}

	lc := models.Linecut{Position: 5.0, Width: 1.0, Type: models.HorizontalType}
	pos, width := Resolve(lc, qv)
	if pos != 50 || width != 10 {
		t.Errorf("Expected pixel position 50 width 10, got %f %f", pos, width)
	}
	prof := SampleLinecut(img, lc, qv)
	if len(prof.Intensity) != 80 || prof.Axis[4] != 2.0 {
		t.Errorf("Unexpected horizontal profile: %d values, axis[4]=%f", len(prof.Intensity), prof.Axis[4])
	}

	vlc := models.Linecut{Position: 10.0, Width: 0, Type: models.VerticalType}
	prof = SampleLinecut(img, vlc, qv)
	if len(prof.Intensity) != 100 || prof.Intensity[3] != img[3][20] {
		t.Errorf("Unexpected vertical profile sample %f, want %f", prof.Intensity[3], img[3][20])
	}

	// Without q-vectors the position is already in pixels
	pos, width = Resolve(models.Linecut{Position: 12, Width: 3, Type: models.VerticalType}, models.QVectors{})
	if pos != 12 || width != 3 {
		t.Errorf("Expected passthrough 12/3, got %f/%f", pos, width)
	}
}
