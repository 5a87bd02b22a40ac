package client

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"saxslinecut/internal/models"
)

// ImageTriple is the decoded raw-image payload: two same-shape arrays and
// their precomputed absolute difference
type ImageTriple struct {
	Array1 models.Image
	Array2 models.Image
	Diff   models.Image
}

// maxTripleDim bounds a decoded dimension so a corrupt header cannot trigger
// a huge allocation
const maxTripleDim = 1 << 15

// DecodeImageTriple reads array_1, array_2 and array_diff in that order.
// Each array is framed as uint32 rows, uint32 cols, then rows*cols
// little-endian float32 values in row-major order.
func DecodeImageTriple(data []byte) (*ImageTriple, error) {
	r := bytes.NewReader(data)
	names := []string{"array_1", "array_2", "array_diff"}
	arrays := make([]models.Image, len(names))

	for i, name := range names {
		img, err := readArray(r)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s", name)
		}
		arrays[i] = img
	}
	if r.Len() != 0 {
		return nil, errors.Wrapf(ErrMalformedResponse, "%d trailing bytes after image triple", r.Len())
	}
	if !arrays[0].SameShape(arrays[1]) || !arrays[0].SameShape(arrays[2]) {
		return nil, errors.Wrapf(ErrMalformedResponse, "image triple shapes differ: %dx%d, %dx%d, %dx%d",
			arrays[0].Rows(), arrays[0].Cols(), arrays[1].Rows(), arrays[1].Cols(),
			arrays[2].Rows(), arrays[2].Cols())
	}
	return &ImageTriple{Array1: arrays[0], Array2: arrays[1], Diff: arrays[2]}, nil
}

// EncodeImageTriple writes the framing read by DecodeImageTriple. Values are
// narrowed to float32.
func EncodeImageTriple(t *ImageTriple) ([]byte, error) {
	var buf bytes.Buffer
	for _, img := range []models.Image{t.Array1, t.Array2, t.Diff} {
		if !img.IsRectangular() {
			return nil, errors.New("cannot encode a non-rectangular image")
		}
		shape := []uint32{uint32(img.Rows()), uint32(img.Cols())}
		if err := binary.Write(&buf, binary.LittleEndian, shape); err != nil {
			return nil, err
		}
		values := make([]float32, 0, img.Rows()*img.Cols())
		for _, v := range img.Flatten() {
			values = append(values, float32(v))
		}
		if err := binary.Write(&buf, binary.LittleEndian, values); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// NewImageTriple builds a triple from two arrays, computing the absolute
// difference
func NewImageTriple(a1, a2 models.Image) (*ImageTriple, error) {
	if !a1.SameShape(a2) {
		return nil, errors.Errorf("image shapes differ: %dx%d vs %dx%d", a1.Rows(), a1.Cols(), a2.Rows(), a2.Cols())
	}
	diff := models.CalculateDifferenceArray(a1, a2)
	for _, row := range diff {
		for c, v := range row {
			row[c] = math.Abs(v)
		}
	}
	return &ImageTriple{Array1: a1, Array2: a2, Diff: diff}, nil
}

func readArray(r *bytes.Reader) (models.Image, error) {
	var shape [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &shape); err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, "missing shape header")
	}
	rows, cols := int(shape[0]), int(shape[1])
	if rows == 0 || cols == 0 || rows > maxTripleDim || cols > maxTripleDim {
		return nil, errors.Wrapf(ErrMalformedResponse, "invalid shape [%d, %d]", rows, cols)
	}
	if r.Len() < rows*cols*4 {
		return nil, errors.Wrapf(ErrMalformedResponse, "buffer holds %d bytes, shape [%d, %d] needs %d",
			r.Len(), rows, cols, rows*cols*4)
	}

	raw := make([]float32, rows*cols)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "reading values")
	}
	flat := make([]float64, len(raw))
	for i, v := range raw {
		flat[i] = float64(v)
	}
	return models.ImageFromFlat(flat, rows, cols), nil
}
