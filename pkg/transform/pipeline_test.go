package transform

import (
	"math"
	"testing"

	"saxslinecut/internal/models"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func assertNoNaN(t *testing.T, name string, img models.Image) {
	t.Helper()
	for r, row := range img {
		for c, v := range row {
			if math.IsNaN(v) {
				t.Errorf("%s: NaN survived at (%d,%d)", name, r, c)
			}
		}
	}
}

// TestApplyIdentity checks {0,100,none} only replaces NaN with 0
func TestApplyIdentity(t *testing.T) {
	nan := math.NaN()
	a := models.Image{{1, -2, nan}, {4.5, 0, 6}}
	b := models.Image{{nan, 3, 3}, {1, 1, 1e6}}

	outA, outB := Apply(a, b, DefaultSettings())
	for r := range a {
		for c := range a[r] {
			want := a[r][c]
			if math.IsNaN(want) {
				want = 0
			}
			if outA[r][c] != want {
				t.Errorf("A(%d,%d): expected %f, got %f", r, c, want, outA[r][c])
			}
			want = b[r][c]
			if math.IsNaN(want) {
				want = 0
			}
			if outB[r][c] != want {
				t.Errorf("B(%d,%d): expected %f, got %f", r, c, want, outB[r][c])
			}
		}
	}

	// Inputs untouched
	if !math.IsNaN(a[0][2]) || a[0][1] != -2 {
		t.Error("Apply mutated its input")
	}
}

func TestLogScale(t *testing.T) {
	img := models.Image{{100, 0, -5}, {0.01, math.NaN(), 10}}
	out := LogScale(img)

	want := models.Image{{2, 0, -2}, {-2, math.NaN(), 1}}
	for r := range want {
		for c := range want[r] {
			if math.IsNaN(want[r][c]) {
				if !math.IsNaN(out[r][c]) {
					t.Errorf("(%d,%d): expected NaN, got %f", r, c, out[r][c])
				}
				continue
			}
			if !approxEqual(out[r][c], want[r][c]) {
				t.Errorf("(%d,%d): expected %f, got %f", r, c, want[r][c], out[r][c])
			}
		}
	}

	// No positive values: negatives fall back to 0
	out = LogScale(models.Image{{-1, 0}})
	if out[0][0] != 0 || out[0][1] != 0 {
		t.Errorf("Expected zeros, got %v", out)
	}
}

func TestPercentileBounds(t *testing.T) {
	img := models.Image{{0, 1, 2, 3, 4}, {5, 6, 7, 8, 9}}

	// N=10: ceil(1.0)=1, floor(9.0)=9
	lo, hi, ok := PercentileBounds(10, 90, img)
	if !ok || lo != 1 || hi != 9 {
		t.Errorf("Expected bounds (1, 9), got (%f, %f, %v)", lo, hi, ok)
	}
	// Upper 100 clamps to the last index
	lo, hi, _ = PercentileBounds(0, 100, img)
	if lo != 0 || hi != 9 {
		t.Errorf("Expected bounds (0, 9), got (%f, %f)", lo, hi)
	}
	// ceil(2.5)=3, floor(7.5)=7
	lo, hi, _ = PercentileBounds(25, 75, img)
	if lo != 3 || hi != 7 {
		t.Errorf("Expected bounds (3, 7), got (%f, %f)", lo, hi)
	}
	if _, _, ok := PercentileBounds(10, 90, models.Image{{math.NaN()}}); ok {
		t.Error("Expected no bounds for all-NaN image")
	}
}

func TestApplyPercentileTogetherVsIndividual(t *testing.T) {
	a := models.Image{{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}
	b := models.Image{{100, 101, 102, 103, 104, 105, 106, 107, 108, 109}}

	s := Settings{LowerPercentile: 10, UpperPercentile: 90, Normalization: NormalizationNone, Mode: ModeIndividual}
	outA, outB := Apply(a, b, s)
	if outA[0][0] != 1 || outA[0][9] != 9 || outB[0][0] != 101 || outB[0][9] != 109 {
		t.Errorf("Individual clip: got %v and %v", outA, outB)
	}

	// Together: N=20, ceil(2)=2 -> 2, floor(18)=18 -> 108
	s.Mode = ModeTogether
	outA, outB = Apply(a, b, s)
	if outA[0][0] != 2 || outA[0][9] != 9 {
		t.Errorf("Together clip A: got %v", outA)
	}
	if outB[0][0] != 100 || outB[0][9] != 108 {
		t.Errorf("Together clip B: got %v", outB)
	}
}

func TestClipPreservesNaNUntilNormalization(t *testing.T) {
	img := models.Image{{math.NaN(), 0, 10, 20, 30}}
	clipped := ClipImage(img, 5, 25)
	if !math.IsNaN(clipped[0][0]) || clipped[0][1] != 5 || clipped[0][4] != 25 {
		t.Errorf("Unexpected clip result %v", clipped)
	}

	out := ApplySingle(img, Settings{LowerPercentile: 25, UpperPercentile: 75, Normalization: NormalizationNone, Mode: ModeTogether})
	assertNoNaN(t, "clip+none", out)
	if out[0][0] != 0 {
		t.Errorf("Expected NaN to become 0, got %f", out[0][0])
	}
}

func TestNormalizeMinMax(t *testing.T) {
	a := models.Image{{0, 5, 10}}
	b := models.Image{{10, 15, 20}}
	s := Settings{LowerPercentile: 0, UpperPercentile: 100, Normalization: NormalizationMinMax, Mode: ModeTogether}

	outA, outB := Apply(a, b, s)
	if outA[0][0] != 0 || outA[0][2] != 0.5 || outB[0][2] != 1 {
		t.Errorf("Together minmax: got %v and %v", outA, outB)
	}

	s.Mode = ModeIndividual
	outA, outB = Apply(a, b, s)
	if outA[0][2] != 1 || outB[0][0] != 0 || outB[0][1] != 0.5 {
		t.Errorf("Individual minmax: got %v and %v", outA, outB)
	}

	// Constant image has zero range
	out := ApplySingle(models.Image{{3, 3}, {3, math.NaN()}}, s)
	for _, row := range out {
		for _, v := range row {
			if v != 0 {
				t.Errorf("Expected 0 for zero range, got %f", v)
			}
		}
	}
}

func TestNormalizeMeanStd(t *testing.T) {
	img := models.Image{{2, 4, 4, 4}, {5, 5, 7, 9}}
	mean, std, ok := MeanStd(img)
	if !ok || !approxEqual(mean, 5) || !approxEqual(std, 2) {
		t.Fatalf("Expected mean 5 std 2, got %f %f", mean, std)
	}

	out := ApplySingle(img, Settings{LowerPercentile: 0, UpperPercentile: 100, Normalization: NormalizationMean, Mode: ModeIndividual})
	if !approxEqual(out[0][0], -1.5) || !approxEqual(out[1][3], 2) {
		t.Errorf("Unexpected z-scores: %v", out)
	}

	out = ApplySingle(models.Image{{1, 1, math.NaN()}}, Settings{UpperPercentile: 100, Normalization: NormalizationMean, Mode: ModeTogether})
	assertNoNaN(t, "mean zero std", out)
	if out[0][0] != 0 {
		t.Errorf("Expected 0 for zero std, got %f", out[0][0])
	}
}

func TestApplyLogThenNormalize(t *testing.T) {
	a := models.Image{{1, 10, 100}}
	b := models.Image{{1000, -1, math.NaN()}}
	s := Settings{LogScale: true, LowerPercentile: 0, UpperPercentile: 100, Normalization: NormalizationMinMax, Mode: ModeTogether}

	outA, outB := Apply(a, b, s)
	assertNoNaN(t, "A", outA)
	assertNoNaN(t, "B", outB)
	// Together range after log: [0, 3]
	if !approxEqual(outA[0][1], 1.0/3) || !approxEqual(outB[0][0], 1) {
		t.Errorf("Unexpected log+minmax: %v %v", outA, outB)
	}
	// -1 floors at log10(1000) for image B (its only positive value)
	if !approxEqual(outB[0][1], 1) {
		t.Errorf("Expected negative floored at log10(minPositive), got %f", outB[0][1])
	}
}

func TestApplySingleImage(t *testing.T) {
	outA, outB := Apply(models.Image{{1, 2}}, nil, Settings{UpperPercentile: 100, Normalization: NormalizationMinMax, Mode: ModeTogether})
	if outB != nil {
		t.Errorf("Expected nil second result, got %v", outB)
	}
	if outA[0][0] != 0 || outA[0][1] != 1 {
		t.Errorf("Unexpected single result %v", outA)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("Default settings invalid: %v", err)
	}
	bad := []Settings{
		{LowerPercentile: 50, UpperPercentile: 10, Normalization: NormalizationNone, Mode: ModeTogether},
		{LowerPercentile: 0, UpperPercentile: 120, Normalization: NormalizationNone, Mode: ModeTogether},
		{LowerPercentile: 0, UpperPercentile: 100, Normalization: "zscore", Mode: ModeTogether},
		{LowerPercentile: 0, UpperPercentile: 100, Normalization: NormalizationNone, Mode: "both"},
	}
	for i, s := range bad {
		if err := s.Validate(); err == nil {
			t.Errorf("Case %d: expected validation error", i)
		}
	}
}

// TestApplyInfiniteInput checks +-Inf pixels never reach the output or the statistics
func TestApplyInfiniteInput(t *testing.T) {
	inf := math.Inf(1)
	cases := []struct {
		name string
		in   models.Image
		s    Settings
		want []float64
	}{
		{"minmax", models.Image{{1, 2, inf}}, Settings{UpperPercentile: 100, Normalization: NormalizationMinMax, Mode: ModeTogether}, []float64{0, 1, 0}},
		{"mean", models.Image{{1, 3, inf}}, Settings{UpperPercentile: 100, Normalization: NormalizationMean, Mode: ModeTogether}, []float64{-1, 1, 0}},
		{"none", models.Image{{-inf, 5}}, DefaultSettings(), []float64{0, 5}},
		{"clipped", models.Image{{1, 2, 3, inf}}, Settings{UpperPercentile: 50, Normalization: NormalizationNone, Mode: ModeTogether}, []float64{1, 2, 2, 2}},
	}
	for _, tc := range cases {
		out := ApplySingle(tc.in, tc.s)
		for c, want := range tc.want {
			got := out[0][c]
			if math.IsNaN(got) || math.IsInf(got, 0) || !approxEqual(got, want) {
				t.Errorf("%s col %d: expected %f, got %f", tc.name, c, want, got)
			}
		}
	}

	lo, hi, ok := MinMax(models.Image{{inf, -inf, 4}})
	if !ok || lo != 4 || hi != 4 {
		t.Errorf("Expected MinMax over finite values 4..4, got %f..%f (%v)", lo, hi, ok)
	}
}
