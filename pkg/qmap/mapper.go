// Package qmap converts between detector pixel coordinates and reciprocal
// (q-) space coordinates using the q-vectors and q-matrices derived from the
// current calibration.
//
// All functions are pure. Degenerate inputs (empty vectors, ragged matrices,
// zero widths) produce documented fallback values instead of errors, because
// an interactive session passes through such states routinely.
package qmap

import (
	"math"
)

// Orientation selects which axis a matrix search runs along
type Orientation int

const (
	// Horizontal linecuts sit at a row; the search runs down the rows
	Horizontal Orientation = iota

	// Vertical linecuts sit at a column; the search runs across the columns
	Vertical
)

// QValueToPixel returns the index of the qVector entry closest to qValue.
// Ties resolve to the first minimal index. NaN entries never match.
// An empty qVector returns qValue unchanged (pixel ~ q identity fallback).
func QValueToPixel(qValue float64, qVector []float64) float64 {
	if len(qVector) == 0 {
		return qValue
	}
	return float64(nearestIndex(qValue, qVector))
}

func nearestIndex(qValue float64, qVector []float64) int {
	best := 0
	bestDiff := math.Inf(1)
	for i, q := range qVector {
		d := math.Abs(q - qValue)
		if d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	return best
}

// QValueToPixelInMatrix searches a 2D q-matrix along one axis while holding
// the orthogonal axis at its middle index. Horizontal searches the rows of
// the middle column, Vertical searches the columns of the middle row.
// Empty or ragged matrices return 0.
func QValueToPixelInMatrix(qValue float64, qMatrix [][]float64, orientation Orientation) int {
	if !isRectangular(qMatrix) {
		return 0
	}
	rows, cols := len(qMatrix), len(qMatrix[0])

	switch orientation {
	case Horizontal:
		midCol := cols / 2
		column := make([]float64, rows)
		for r := 0; r < rows; r++ {
			column[r] = qMatrix[r][midCol]
		}
		return nearestIndex(qValue, column)
	case Vertical:
		return nearestIndex(qValue, qMatrix[rows/2])
	default:
		return 0
	}
}

// QWidthToPixelWidth converts a q-space width centred at qPosition into a
// pixel width by mapping both edges through QValueToPixel. Non-linear
// mappings make this an approximation; it is no worse than the
// nearest-neighbour search itself.
func QWidthToPixelWidth(qPosition, qWidth float64, qVector []float64) float64 {
	if qWidth <= 0 || len(qVector) == 0 {
		return 0
	}
	lo := QValueToPixel(qPosition-qWidth/2, qVector)
	hi := QValueToPixel(qPosition+qWidth/2, qVector)
	return math.Abs(hi - lo)
}

// PixelWidthToQWidth is the inverse of QWidthToPixelWidth: it reads the q
// values at the rounded edges of a pixel band and returns their distance.
func PixelWidthToQWidth(pixelPosition, pixelWidth float64, qVector []float64) float64 {
	if pixelWidth <= 0 || len(qVector) == 0 {
		return 0
	}
	lo := clampIndex(int(math.Round(pixelPosition-pixelWidth/2)), len(qVector))
	hi := clampIndex(int(math.Round(pixelPosition+pixelWidth/2)), len(qVector))
	return math.Abs(qVector[hi] - qVector[lo])
}

// PixelToQValue reads the q-value at a (rounded, clamped) pixel index.
// An empty qVector returns the pixel unchanged.
func PixelToQValue(pixel float64, qVector []float64) float64 {
	if len(qVector) == 0 {
		return pixel
	}
	return qVector[clampIndex(int(math.Round(pixel)), len(qVector))]
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func isRectangular(m [][]float64) bool {
	if len(m) == 0 || len(m[0]) == 0 {
		return false
	}
	for _, row := range m {
		if len(row) != len(m[0]) {
			return false
		}
	}
	return true
}
