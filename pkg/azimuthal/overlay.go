package azimuthal

import (
	"saxslinecut/internal/models"
	"saxslinecut/pkg/geometry"
)

// Overlay is the display outline of one azimuthal integration
type Overlay struct {
	ID         int
	Contour    geometry.Polygon
	LeftColor  string
	RightColor string
}

// BuildOverlay masks the filtered q-array with the integration's q-range
// (the array's own finite range when unset) on a tier grid and traces the
// result. factor, rows and cols describe the active resolution tier.
func BuildOverlay(integration models.AzimuthalIntegration, qArray [][]float64, factor, rows, cols int) Overlay {
	ov := Overlay{
		ID:         integration.ID,
		LeftColor:  integration.LeftColor,
		RightColor: integration.RightColor,
		Contour:    geometry.Polygon{X: []float64{}, Y: []float64{}},
	}

	var qMin, qMax float64
	if integration.QRange != nil {
		qMin, qMax = integration.QRange[0], integration.QRange[1]
	} else {
		lo, hi, ok := QBounds(qArray)
		if !ok {
			return ov
		}
		qMin, qMax = lo, hi
	}

	ov.Contour = TraceContour(BuildTierMask(qArray, qMin, qMax, factor, rows, cols))
	return ov
}
