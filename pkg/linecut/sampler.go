// Package linecut extracts 1D intensity profiles from 2D detector images along
// horizontal, vertical and inclined lines, averaging over a finite width
// perpendicular to the line.
package linecut

import (
	"math"

	"saxslinecut/internal/models"
)

// SampleHorizontal averages rows [round(rowCenter-width/2), round(rowCenter+width/2)]
// (clamped to the image) for every column. The denominator is the clamped row
// count, so a band running off the edge narrows instead of reading outside.
func SampleHorizontal(image models.Image, rowCenter, width float64) []float64 {
	rows := image.Rows()
	if rows == 0 {
		return []float64{}
	}
	start := clampInt(int(math.Round(rowCenter-width/2)), 0, rows-1)
	end := clampInt(int(math.Round(rowCenter+width/2)), 0, rows-1)

	cols := image.Cols()
	out := make([]float64, cols)
	count := float64(end - start + 1)
	for c := 0; c < cols; c++ {
		sum := 0.0
		for r := start; r <= end; r++ {
			if c < len(image[r]) {
				sum += image[r][c]
			}
		}
		out[c] = sum / count
	}
	return out
}

// SampleVertical averages columns [floor(colCenter-width/2), ceil(colCenter+width/2)]
// (clamped to the image) for every row.
//
// The bounds use floor/ceil where SampleHorizontal rounds; the two can differ
// by one pixel for small widths.
func SampleVertical(image models.Image, colCenter, width float64) []float64 {
	rows, cols := image.Rows(), image.Cols()
	if rows == 0 || cols == 0 {
		return []float64{}
	}
	start := clampInt(int(math.Floor(colCenter-width/2)), 0, cols-1)
	end := clampInt(int(math.Ceil(colCenter+width/2)), 0, cols-1)

	out := make([]float64, rows)
	count := float64(end - start + 1)
	for r := 0; r < rows; r++ {
		sum := 0.0
		for c := start; c <= end && c < len(image[r]); c++ {
			sum += image[r][c]
		}
		out[r] = sum / count
	}
	return out
}

// AxisValues returns the plot axis for a profile of n points: the q-vector
// when it covers every point, pixel indices otherwise
func AxisValues(n int, qVector []float64) []float64 {
	out := make([]float64, n)
	if len(qVector) >= n {
		copy(out, qVector[:n])
		return out
	}
	for i := range out {
		out[i] = float64(i)
	}
	return out
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
