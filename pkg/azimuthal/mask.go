// Package azimuthal builds the overlays for azimuthal integrations: a boolean
// mask of the pixels whose q-value falls in the integration's q-range, the
// contour of that mask, and a memo of the backend's filtered q-arrays.
package azimuthal

import (
	"math"
)

// Mask is a per-pixel membership grid, Mask[row][col]
type Mask [][]bool

// Count returns the number of pixels in the mask
func (m Mask) Count() int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// BuildMask marks every pixel whose q-value lies in [qMin, qMax]. NaN
// pixels are never in the mask.
func BuildMask(qMatrix [][]float64, qMin, qMax float64) Mask {
	mask := make(Mask, len(qMatrix))
	for r, row := range qMatrix {
		mask[r] = make([]bool, len(row))
		for c, q := range row {
			mask[r][c] = !math.IsNaN(q) && q >= qMin && q <= qMax
		}
	}
	return mask
}

// RescaleQMatrix samples a full-resolution q-matrix onto a tier grid of
// rows x cols with the given downsample factor. Tier pixel (r, c) reads
// full-resolution pixel (r*factor, c*factor); positions past the
// full-resolution extent become NaN.
func RescaleQMatrix(qMatrix [][]float64, factor, rows, cols int) [][]float64 {
	if factor < 1 {
		factor = 1
	}
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]float64, cols)
		src := r * factor
		for c := 0; c < cols; c++ {
			sc := c * factor
			if src >= len(qMatrix) || sc >= len(qMatrix[src]) {
				out[r][c] = math.NaN()
				continue
			}
			out[r][c] = qMatrix[src][sc]
		}
	}
	return out
}

// BuildTierMask rescales qMatrix onto a tier grid and masks it
func BuildTierMask(qMatrix [][]float64, qMin, qMax float64, factor, rows, cols int) Mask {
	return BuildMask(RescaleQMatrix(qMatrix, factor, rows, cols), qMin, qMax)
}

// QBounds returns the finite min and max of a q-matrix. ok is false if it
// holds no finite value.
func QBounds(qMatrix [][]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range qMatrix {
		for _, q := range row {
			if math.IsNaN(q) || math.IsInf(q, 0) {
				continue
			}
			lo = math.Min(lo, q)
			hi = math.Max(hi, q)
		}
	}
	return lo, hi, lo <= hi
}
