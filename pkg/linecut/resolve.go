package linecut

import (
	"saxslinecut/internal/models"
	"saxslinecut/pkg/qmap"
)

// Profile is a plot-ready horizontal or vertical linecut for one image
type Profile struct {
	Axis      []float64
	Intensity []float64
}

// Resolve converts a linecut's q-space position and width into pixel units.
// Horizontal linecuts map through the row axis (QY), vertical through the
// column axis (QX). Without a q-vector the position is already in pixels and
// the width is used as-is.
func Resolve(lc models.Linecut, qv models.QVectors) (pixelPosition, pixelWidth float64) {
	qVector := qv.QY
	if lc.Type == models.VerticalType {
		qVector = qv.QX
	}
	if len(qVector) == 0 {
		return lc.Position, lc.Width
	}
	return qmap.QValueToPixel(lc.Position, qVector), qmap.QWidthToPixelWidth(lc.Position, lc.Width, qVector)
}

// SampleLinecut resolves lc against the q-vectors and samples it from image.
// The axis runs along the line: QX for horizontal cuts, QY for vertical ones.
func SampleLinecut(image models.Image, lc models.Linecut, qv models.QVectors) Profile {
	pos, width := Resolve(lc, qv)
	if lc.Type == models.VerticalType {
		values := SampleVertical(image, pos, width)
		return Profile{Axis: AxisValues(len(values), qv.QY), Intensity: values}
	}
	values := SampleHorizontal(image, pos, width)
	return Profile{Axis: AxisValues(len(values), qv.QX), Intensity: values}
}
