package session

import (
	"context"
	"time"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/client"
	"saxslinecut/pkg/collection"
	"saxslinecut/pkg/config"
	"saxslinecut/pkg/resolution"
	"saxslinecut/pkg/transform"
)

// Fetcher is the backend surface a session needs; *client.Client implements it
type Fetcher interface {
	FetchImages(ctx context.Context, left, right string) (*client.ImageTriple, error)
	FetchQVectors(ctx context.Context, cal models.CalibrationParams) (models.QVectors, error)
	FetchAzimuthal(ctx context.Context, cal models.CalibrationParams, azimuthRange [2]float64) (*client.AzimuthalResponse, error)
}

// Options configures a session
type Options struct {
	// LogScaleDelay is the pause inserted while toggling log scale, during
	// which Loading reports true
	LogScaleDelay time.Duration

	// ThrottleInterval is the minimum time between applied updates of one linecut
	ThrottleInterval time.Duration

	Transform  transform.Settings
	Tiers      resolution.TierParams
	Thresholds resolution.Thresholds
	Padding    resolution.Padding
	Palette    collection.Palette
}

// DefaultOptions mirrors config.DefaultConfig
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig extracts session options from a loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		LogScaleDelay:    cfg.Display.LogScaleDelay,
		ThrottleInterval: cfg.Display.ThrottleInterval,
		Transform:        cfg.TransformSettings(),
		Tiers:            cfg.TierParams(),
		Thresholds:       cfg.Thresholds(),
		Padding:          cfg.Padding(),
		Palette:          cfg.Display.Palette,
	}
}
