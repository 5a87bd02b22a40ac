package transform

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"saxslinecut/internal/models"
)

// LogScale returns log10 of every positive value. Zero stays zero and
// negative values become log10 of the smallest positive value in the image,
// which keeps them finite and at the bottom of the display range. An image
// with no positive value maps its negatives to 0. NaN is preserved.
func LogScale(img models.Image) models.Image {
	minPositive := math.Inf(1)
	for _, row := range img {
		for _, v := range row {
			if v > 0 && v < minPositive {
				minPositive = v
			}
		}
	}
	floor := 0.0
	if !math.IsInf(minPositive, 1) {
		floor = math.Log10(minPositive)
	}

	out := img.Clone()
	for _, row := range out {
		for c, v := range row {
			switch {
			case v > 0:
				row[c] = math.Log10(v)
			case v < 0:
				row[c] = floor
			}
		}
	}
	return out
}

// PercentileBounds returns the clip bounds for the finite values of the
// given images: sorted[ceil(lower/100*N)] and sorted[floor(upper/100*N)],
// with indices clamped into the array. ok is false when there is no value.
func PercentileBounds(lower, upper float64, imgs ...models.Image) (lo, hi float64, ok bool) {
	values := finiteValues(imgs...)
	n := len(values)
	if n == 0 {
		return 0, 0, false
	}
	sort.Float64s(values)

	lowIndex := clampInt(int(math.Ceil(lower/100*float64(n))), 0, n-1)
	highIndex := clampInt(int(math.Floor(upper/100*float64(n))), 0, n-1)
	return values[lowIndex], values[highIndex], true
}

// ClipImage clamps every value into [lo, hi], preserving NaN
func ClipImage(img models.Image, lo, hi float64) models.Image {
	out := img.Clone()
	for _, row := range out {
		for c, v := range row {
			if math.IsNaN(v) {
				continue
			}
			row[c] = clamp(v, lo, hi)
		}
	}
	return out
}

// ReplaceNaN returns a copy with NaN and +-Inf replaced by 0
func ReplaceNaN(img models.Image) models.Image {
	out := img.Clone()
	for _, row := range out {
		for c, v := range row {
			if !isFinite(v) {
				row[c] = 0
			}
		}
	}
	return out
}

// MinMax returns the min and max over the finite values of the images
func MinMax(imgs ...models.Image) (lo, hi float64, ok bool) {
	values := finiteValues(imgs...)
	if len(values) == 0 {
		return 0, 0, false
	}
	return floats.Min(values), floats.Max(values), true
}

// MeanStd returns the mean and population standard deviation over the
// finite values of the images
func MeanStd(imgs ...models.Image) (mean, std float64, ok bool) {
	values := finiteValues(imgs...)
	n := len(values)
	if n == 0 {
		return 0, 0, false
	}
	if n == 1 {
		return values[0], 0, true
	}
	mean, variance := stat.MeanVariance(values, nil)
	// MeanVariance is the unbiased estimator; rescale to the population variance
	variance *= float64(n-1) / float64(n)
	return mean, math.Sqrt(variance), true
}

// NormalizeMinMax maps values to (v-lo)/(hi-lo); a zero range maps to 0.
// Non-finite inputs and results become 0.
func NormalizeMinMax(img models.Image, lo, hi float64) models.Image {
	span := hi - lo
	out := img.Clone()
	for _, row := range out {
		for c, v := range row {
			if span == 0 || !isFinite(v) {
				row[c] = 0
				continue
			}
			row[c] = finiteOrZero((v - lo) / span)
		}
	}
	return out
}

// NormalizeMeanStd maps values to (v-mean)/std; a zero std maps to 0.
// Non-finite inputs and results become 0.
func NormalizeMeanStd(img models.Image, mean, std float64) models.Image {
	out := img.Clone()
	for _, row := range out {
		for c, v := range row {
			if std == 0 || !isFinite(v) {
				row[c] = 0
				continue
			}
			row[c] = finiteOrZero((v - mean) / std)
		}
	}
	return out
}

func finiteValues(imgs ...models.Image) []float64 {
	var values []float64
	for _, img := range imgs {
		for _, row := range img {
			for _, v := range row {
				if isFinite(v) {
					values = append(values, v)
				}
			}
		}
	}
	return values
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrZero(v float64) float64 {
	if isFinite(v) {
		return v
	}
	return 0
}

func clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
