// Package transform turns raw detector arrays into display-ready arrays:
// optional log scaling, percentile clipping and normalisation, applied to one
// or two images either jointly or independently.
package transform

import "fmt"

// Normalization selects the final value mapping
type Normalization string

const (
	NormalizationNone   Normalization = "none"
	NormalizationMinMax Normalization = "minmax"
	NormalizationMean   Normalization = "mean"
)

// Mode selects whether statistics are shared across both images
type Mode string

const (
	ModeTogether   Mode = "together"
	ModeIndividual Mode = "individual"
)

// Settings controls one pipeline run
type Settings struct {
	LogScale        bool          `yaml:"logScale"`
	LowerPercentile float64       `yaml:"lowerPercentile"`
	UpperPercentile float64       `yaml:"upperPercentile"`
	Normalization   Normalization `yaml:"normalization"`
	Mode            Mode          `yaml:"normalizationMode"`
}

// DefaultSettings is linear scale, no clipping, no normalisation, joint mode
func DefaultSettings() Settings {
	return Settings{
		LowerPercentile: 0,
		UpperPercentile: 100,
		Normalization:   NormalizationNone,
		Mode:            ModeTogether,
	}
}

// Validate checks the percentile bounds and enum values
func (s Settings) Validate() error {
	if s.LowerPercentile < 0 || s.UpperPercentile > 100 || s.LowerPercentile > s.UpperPercentile {
		return fmt.Errorf("invalid percentile range [%g, %g]", s.LowerPercentile, s.UpperPercentile)
	}
	switch s.Normalization {
	case NormalizationNone, NormalizationMinMax, NormalizationMean:
	default:
		return fmt.Errorf("invalid normalization %q", s.Normalization)
	}
	switch s.Mode {
	case ModeTogether, ModeIndividual:
	default:
		return fmt.Errorf("invalid normalization mode %q", s.Mode)
	}
	return nil
}

// ClipsPercentiles reports whether the percentile stage changes values
func (s Settings) ClipsPercentiles() bool {
	return !(s.LowerPercentile == 0 && s.UpperPercentile == 100)
}
