// Package config provides configuration loading and management for saxslinecut.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/client"
	"saxslinecut/pkg/collection"
	"saxslinecut/pkg/resolution"
	"saxslinecut/pkg/transform"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Backend connection parameters
	Backend struct {
		// BaseURL is the HTTP root of the scattering-data backend
		BaseURL string `yaml:"baseURL"`

		// ProgressURL is the websocket endpoint for progress updates
		ProgressURL string `yaml:"progressURL"`

		// Timeout bounds each HTTP request (0 = none)
		Timeout time.Duration `yaml:"timeout"`

		// HeartbeatInterval is how often the ping token is sent
		HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`

		PingToken string `yaml:"pingToken"`
		PongToken string `yaml:"pongToken"`
	} `yaml:"backend"`

	// Display parameters
	Display struct {
		// LogScaleDelay is the pause inserted while toggling log scale
		LogScaleDelay time.Duration `yaml:"logScaleDelay"`

		// ThrottleInterval is the minimum time between recomputations of one linecut
		ThrottleInterval time.Duration `yaml:"throttleInterval"`

		LogScale          bool                    `yaml:"logScale"`
		LowerPercentile   float64                 `yaml:"lowerPercentile"`
		UpperPercentile   float64                 `yaml:"upperPercentile"`
		Normalization     transform.Normalization `yaml:"normalization"`
		NormalizationMode transform.Mode          `yaml:"normalizationMode"`

		// Palette is the default color cycle for new linecuts
		Palette collection.Palette `yaml:"palette"`
	} `yaml:"display"`

	// Resolution tier parameters
	Resolution struct {
		MediumFactor int `yaml:"mediumFactor"`
		LowFactor    int `yaml:"lowFactor"`

		// Thresholds are percentages of the full image
		LowThresholdPercent    float64 `yaml:"lowThresholdPercent"`
		MediumThresholdPercent float64 `yaml:"mediumThresholdPercent"`

		// Padding added to the y axis on reset, in pixels
		AxisTopPadding    float64 `yaml:"axisTopPadding"`
		AxisBottomPadding float64 `yaml:"axisBottomPadding"`
	} `yaml:"resolution"`

	// Calibration used when no backend supplies one
	Calibration models.CalibrationParams `yaml:"calibration"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for tier construction
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Backend.BaseURL = "http://localhost:8000"
	cfg.Backend.ProgressURL = "ws://localhost:8000/ws/progress"
	cfg.Backend.Timeout = 60 * time.Second
	cfg.Backend.HeartbeatInterval = 30 * time.Second
	cfg.Backend.PingToken = "ping"
	cfg.Backend.PongToken = "pong"

	cfg.Display.LogScaleDelay = 100 * time.Millisecond
	cfg.Display.ThrottleInterval = 200 * time.Millisecond
	defaults := transform.DefaultSettings()
	cfg.Display.LogScale = defaults.LogScale
	cfg.Display.LowerPercentile = defaults.LowerPercentile
	cfg.Display.UpperPercentile = defaults.UpperPercentile
	cfg.Display.Normalization = defaults.Normalization
	cfg.Display.NormalizationMode = defaults.Mode
	cfg.Display.Palette = collection.DefaultPalette()

	cfg.Resolution.MediumFactor = 2
	cfg.Resolution.LowFactor = 4
	cfg.Resolution.LowThresholdPercent = 50
	cfg.Resolution.MediumThresholdPercent = 20
	cfg.Resolution.AxisTopPadding = 30
	cfg.Resolution.AxisBottomPadding = 20

	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default

	cfg.Output.Verbose = true

	return cfg
}

// TransformSettings returns the display pipeline settings
func (c *Config) TransformSettings() transform.Settings {
	return transform.Settings{
		LogScale:        c.Display.LogScale,
		LowerPercentile: c.Display.LowerPercentile,
		UpperPercentile: c.Display.UpperPercentile,
		Normalization:   c.Display.Normalization,
		Mode:            c.Display.NormalizationMode,
	}
}

// TierParams returns the tier construction parameters
func (c *Config) TierParams() resolution.TierParams {
	return resolution.TierParams{
		MediumFactor: c.Resolution.MediumFactor,
		LowFactor:    c.Resolution.LowFactor,
		NumCores:     c.Processing.NumCores,
	}
}

// Thresholds returns the tier selection thresholds
func (c *Config) Thresholds() resolution.Thresholds {
	return resolution.Thresholds{
		Low:    c.Resolution.LowThresholdPercent,
		Medium: c.Resolution.MediumThresholdPercent,
	}
}

// Padding returns the reset axis padding
func (c *Config) Padding() resolution.Padding {
	return resolution.Padding{
		Top:    c.Resolution.AxisTopPadding,
		Bottom: c.Resolution.AxisBottomPadding,
	}
}

// ProgressOptions returns the progress channel heartbeat settings
func (c *Config) ProgressOptions() client.ProgressOptions {
	return client.ProgressOptions{
		HeartbeatInterval: c.Backend.HeartbeatInterval,
		PingToken:         c.Backend.PingToken,
		PongToken:         c.Backend.PongToken,
	}
}

// Validate checks values that would otherwise fail deep inside processing
func (c *Config) Validate() error {
	if err := c.TransformSettings().Validate(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	if c.Resolution.MediumFactor < 1 || c.Resolution.LowFactor < c.Resolution.MediumFactor {
		return fmt.Errorf("resolution: factors must satisfy 1 <= medium (%d) <= low (%d)",
			c.Resolution.MediumFactor, c.Resolution.LowFactor)
	}
	if c.Resolution.MediumThresholdPercent > c.Resolution.LowThresholdPercent {
		return fmt.Errorf("resolution: medium threshold %g exceeds low threshold %g",
			c.Resolution.MediumThresholdPercent, c.Resolution.LowThresholdPercent)
	}
	if c.Display.LogScaleDelay < 0 || c.Display.ThrottleInterval < 0 {
		return fmt.Errorf("display: delays must not be negative")
	}
	if c.Processing.NumCores < 1 {
		return fmt.Errorf("processing: numCores must be at least 1, got %d", c.Processing.NumCores)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
