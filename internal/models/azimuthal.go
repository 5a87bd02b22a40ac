package models

import "fmt"

// AzimuthalIntegration defines a q-range and azimuth sector to integrate over
type AzimuthalIntegration struct {
	ID int

	// QRange is [min, max]; nil means the full available range
	QRange *[2]float64

	// AzimuthRange is [min, max] in degrees
	AzimuthRange [2]float64

	LeftColor  string
	RightColor string
	Hidden     bool
}

func (a AzimuthalIntegration) GetID() int                                  { return a.ID }
func (a AzimuthalIntegration) IsHidden() bool                              { return a.Hidden }
func (a AzimuthalIntegration) WithID(id int) AzimuthalIntegration          { a.ID = id; return a }
func (a AzimuthalIntegration) WithHidden(hidden bool) AzimuthalIntegration { a.Hidden = hidden; return a }
func (a AzimuthalIntegration) WithColors(left, right string) AzimuthalIntegration {
	a.LeftColor, a.RightColor = left, right
	return a
}

// AzimuthalData is the integrated profile of one source image for one integration
type AzimuthalData struct {
	ID        int
	Q         []float64
	Intensity []float64
	QArray    [][]float64
}

// CachedMatrixData memoises the filtered q-arrays returned by the backend
// for one (calibration, azimuth range) key
type CachedMatrixData struct {
	Key     string
	QMax    float64
	QArray1 [][]float64
	QArray2 [][]float64
}

// AzimuthalCacheKey derives the cache key for a calibration and azimuth range
func AzimuthalCacheKey(c CalibrationParams, azimuthRange [2]float64) string {
	return fmt.Sprintf("%s|az=%g,%g", c.Key(), azimuthRange[0], azimuthRange[1])
}
