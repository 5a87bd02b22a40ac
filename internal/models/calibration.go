package models

import (
	"fmt"
	"strconv"
)

// CalibrationParams holds the detector geometry that fully determines the
// pixel to q mapping. Values are treated as an immutable snapshot: replacing
// them invalidates every q-vector, q-matrix and cache derived from them.
type CalibrationParams struct {
	// SampleDetectorDistance is the distance from sample to detector
	SampleDetectorDistance float64 `yaml:"sampleDetectorDistance" json:"sample_detector_distance"`

	// BeamCenterX and BeamCenterY locate the direct beam in pixel coordinates
	BeamCenterX float64 `yaml:"beamCenterX" json:"beam_center_x"`
	BeamCenterY float64 `yaml:"beamCenterY" json:"beam_center_y"`

	// PixelSizeX and PixelSizeY are the physical pixel dimensions
	PixelSizeX float64 `yaml:"pixelSizeX" json:"pixel_size_x"`
	PixelSizeY float64 `yaml:"pixelSizeY" json:"pixel_size_y"`

	// Wavelength of the incident beam
	Wavelength float64 `yaml:"wavelength" json:"wavelength"`

	// Tilt and TiltPlaneRotation describe detector tilt
	Tilt              float64 `yaml:"tilt" json:"tilt"`
	TiltPlaneRotation float64 `yaml:"tiltPlaneRotation" json:"tilt_plan_rotation"`
}

// Key returns a stable string identifying this exact parameter set. It is
// used to key caches of calibration-derived data.
func (c CalibrationParams) Key() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%s",
		f(c.SampleDetectorDistance), f(c.BeamCenterX), f(c.BeamCenterY),
		f(c.PixelSizeX), f(c.PixelSizeY), f(c.Wavelength),
		f(c.Tilt), f(c.TiltPlaneRotation))
}

// QVectors holds the per-axis q-values for the current calibration.
// QX is indexed by pixel column, QY by pixel row.
type QVectors struct {
	QX []float64 `json:"q_x"`
	QY []float64 `json:"q_y"`
}

// Empty reports whether neither axis has a q mapping
func (q QVectors) Empty() bool {
	return len(q.QX) == 0 && len(q.QY) == 0
}
