package client

import (
	"encoding/json"

	"github.com/pkg/errors"

	"saxslinecut/internal/models"
)

// ErrMalformedResponse marks a payload that failed validation. Test for it
// with errors.Is.
var ErrMalformedResponse = errors.New("malformed response")

// AzimuthalResponse is the azimuthal integration payload for both images
type AzimuthalResponse struct {
	QMax       float64
	Q1         []float64
	Q2         []float64
	Intensity1 []float64
	Intensity2 []float64
	QArray1    [][]float64
	QArray2    [][]float64
}

// Data splits the response into per-image data for integration id
func (r *AzimuthalResponse) Data(id int) (models.AzimuthalData, models.AzimuthalData) {
	return models.AzimuthalData{ID: id, Q: r.Q1, Intensity: r.Intensity1, QArray: r.QArray1},
		models.AzimuthalData{ID: id, Q: r.Q2, Intensity: r.Intensity2, QArray: r.QArray2}
}

// Matrix returns the cacheable filtered q-arrays under key
func (r *AzimuthalResponse) Matrix(key string) models.CachedMatrixData {
	return models.CachedMatrixData{Key: key, QMax: r.QMax, QArray1: r.QArray1, QArray2: r.QArray2}
}

type azimuthalWire struct {
	QMax       *float64    `json:"q_max"`
	Q1         []float64   `json:"q_1"`
	Q2         []float64   `json:"q_2"`
	Intensity1 []float64   `json:"intensity_1"`
	Intensity2 []float64   `json:"intensity_2"`
	QArray1    [][]float64 `json:"q_array_filtered_1"`
	QArray2    [][]float64 `json:"q_array_filtered_2"`
}

// DecodeAzimuthalResponse parses and validates an azimuthal payload. Every
// field is required and each q array must match its intensity array.
func DecodeAzimuthalResponse(data []byte) (*AzimuthalResponse, error) {
	var w azimuthalWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(ErrMalformedResponse, "azimuthal response: %v", err)
	}

	missing := ""
	switch {
	case w.QMax == nil:
		missing = "q_max"
	case w.Q1 == nil:
		missing = "q_1"
	case w.Q2 == nil:
		missing = "q_2"
	case w.Intensity1 == nil:
		missing = "intensity_1"
	case w.Intensity2 == nil:
		missing = "intensity_2"
	case w.QArray1 == nil:
		missing = "q_array_filtered_1"
	case w.QArray2 == nil:
		missing = "q_array_filtered_2"
	}
	if missing != "" {
		return nil, errors.Wrapf(ErrMalformedResponse, "azimuthal response: missing %s", missing)
	}
	if len(w.Q1) != len(w.Intensity1) || len(w.Q2) != len(w.Intensity2) {
		return nil, errors.Wrapf(ErrMalformedResponse, "azimuthal response: q/intensity lengths %d/%d and %d/%d",
			len(w.Q1), len(w.Intensity1), len(w.Q2), len(w.Intensity2))
	}

	return &AzimuthalResponse{
		QMax:       *w.QMax,
		Q1:         w.Q1,
		Q2:         w.Q2,
		Intensity1: w.Intensity1,
		Intensity2: w.Intensity2,
		QArray1:    w.QArray1,
		QArray2:    w.QArray2,
	}, nil
}

// DecodeQVectors parses and validates a q-vector payload
func DecodeQVectors(data []byte) (models.QVectors, error) {
	var w struct {
		QX []float64 `json:"q_x"`
		QY []float64 `json:"q_y"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return models.QVectors{}, errors.Wrapf(ErrMalformedResponse, "q-vector response: %v", err)
	}
	if w.QX == nil || w.QY == nil {
		return models.QVectors{}, errors.Wrap(ErrMalformedResponse, "q-vector response: missing q_x or q_y")
	}
	return models.QVectors{QX: w.QX, QY: w.QY}, nil
}

// Overview summarises every image in the loaded data set
type Overview struct {
	MaxIntensities []float64 `json:"max_intensities"`
	AvgIntensities []float64 `json:"avg_intensities"`
	ImageNames     []string  `json:"image_names"`
}

// DecodeOverview parses and validates a raw-data overview payload; the three
// lists must be present and of equal length
func DecodeOverview(data []byte) (*Overview, error) {
	var o Overview
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, errors.Wrapf(ErrMalformedResponse, "overview response: %v", err)
	}
	if o.MaxIntensities == nil || o.AvgIntensities == nil || o.ImageNames == nil {
		return nil, errors.Wrap(ErrMalformedResponse, "overview response: missing field")
	}
	if len(o.MaxIntensities) != len(o.ImageNames) || len(o.AvgIntensities) != len(o.ImageNames) {
		return nil, errors.Wrapf(ErrMalformedResponse, "overview response: %d names, %d max, %d avg",
			len(o.ImageNames), len(o.MaxIntensities), len(o.AvgIntensities))
	}
	return &o, nil
}
