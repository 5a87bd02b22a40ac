package collection

import (
	"math"

	"saxslinecut/internal/models"
)

// DefaultAzimuthRange covers the full circle
var DefaultAzimuthRange = [2]float64{-180, 180}

// NewLinecut returns a horizontal or vertical linecut positioned at the
// midpoint of the q-vector's range. Without a q-vector the position is the
// middle pixel of extent.
func NewLinecut(t models.LinecutType, qVector []float64, extent int) models.Linecut {
	return models.Linecut{
		Position: midpoint(qVector, extent),
		Type:     t,
	}
}

// NewInclinedLinecut returns a zero-angle line through the image centre
func NewInclinedLinecut(width, height int) models.InclinedLinecut {
	return models.InclinedLinecut{
		XPosition: float64(width) / 2,
		YPosition: float64(height) / 2,
		Type:      models.InclinedType,
	}
}

// NewAzimuthalIntegration returns a full-range, full-circle integration
func NewAzimuthalIntegration() models.AzimuthalIntegration {
	return models.AzimuthalIntegration{AzimuthRange: DefaultAzimuthRange}
}

func midpoint(qVector []float64, extent int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, q := range qVector {
		if math.IsNaN(q) {
			continue
		}
		lo = math.Min(lo, q)
		hi = math.Max(hi, q)
	}
	if math.IsInf(lo, 1) {
		return math.Floor(float64(extent) / 2)
	}
	return (lo + hi) / 2
}
