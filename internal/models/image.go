package models

import "math"

// Image is a row-major 2D detector array: Image[row][col].
// NaN marks pixels with no data.
type Image [][]float64

// Rows returns the number of rows
func (img Image) Rows() int {
	return len(img)
}

// Cols returns the length of the first row, or 0 for an empty image
func (img Image) Cols() int {
	if len(img) == 0 {
		return 0
	}
	return len(img[0])
}

// IsRectangular reports whether the image is non-empty and every row has
// the same non-zero length
func (img Image) IsRectangular() bool {
	if len(img) == 0 || len(img[0]) == 0 {
		return false
	}
	cols := len(img[0])
	for _, row := range img {
		if len(row) != cols {
			return false
		}
	}
	return true
}

// SameShape reports whether both images are rectangular with equal dimensions
func (img Image) SameShape(other Image) bool {
	return img.IsRectangular() && other.IsRectangular() &&
		img.Rows() == other.Rows() && img.Cols() == other.Cols()
}

// Clone returns a deep copy
func (img Image) Clone() Image {
	if img == nil {
		return nil
	}
	out := make(Image, len(img))
	for i, row := range img {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Flatten returns the values in row-major order
func (img Image) Flatten() []float64 {
	n := 0
	for _, row := range img {
		n += len(row)
	}
	out := make([]float64, 0, n)
	for _, row := range img {
		out = append(out, row...)
	}
	return out
}

// NewImage allocates a rows x cols image filled with value
func NewImage(rows, cols int, value float64) Image {
	img := make(Image, rows)
	for r := range img {
		img[r] = make([]float64, cols)
		if value != 0 {
			for c := range img[r] {
				img[r][c] = value
			}
		}
	}
	return img
}

// ImageFromFlat slices a row-major flat buffer into rows of cols values.
// It returns nil if the buffer length does not match rows*cols.
func ImageFromFlat(flat []float64, rows, cols int) Image {
	if rows < 0 || cols < 0 || len(flat) != rows*cols {
		return nil
	}
	img := make(Image, rows)
	for r := 0; r < rows; r++ {
		img[r] = append([]float64(nil), flat[r*cols:(r+1)*cols]...)
	}
	return img
}

// CalculateDifferenceArray returns a - b elementwise. A pixel is NaN when
// either input is NaN. Mismatched or empty shapes yield an empty image.
func CalculateDifferenceArray(a, b Image) Image {
	if !a.SameShape(b) {
		return Image{}
	}
	out := make(Image, a.Rows())
	for r := range a {
		out[r] = make([]float64, len(a[r]))
		for c := range a[r] {
			av, bv := a[r][c], b[r][c]
			if math.IsNaN(av) || math.IsNaN(bv) {
				out[r][c] = math.NaN()
				continue
			}
			out[r][c] = av - bv
		}
	}
	return out
}
