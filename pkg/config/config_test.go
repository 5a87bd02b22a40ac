package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"saxslinecut/pkg/transform"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Display.LogScaleDelay != 100*time.Millisecond {
		t.Errorf("Expected log scale delay 100ms, got %v", cfg.Display.LogScaleDelay)
	}
	if cfg.Display.ThrottleInterval != 200*time.Millisecond {
		t.Errorf("Expected throttle interval 200ms, got %v", cfg.Display.ThrottleInterval)
	}
	if th := cfg.Thresholds(); th.Low != 50 || th.Medium != 20 {
		t.Errorf("Expected thresholds 50/20, got %+v", th)
	}
	if p := cfg.Padding(); p.Top != 30 || p.Bottom != 20 {
		t.Errorf("Expected padding 30/20, got %+v", p)
	}
	if cfg.TransformSettings() != transform.DefaultSettings() {
		t.Errorf("Expected default transform settings, got %+v", cfg.TransformSettings())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error: %v", err)
	}
	if cfg.Resolution.LowFactor != 4 {
		t.Errorf("Expected default low factor 4, got %d", cfg.Resolution.LowFactor)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlText := `
backend:
  baseURL: http://backend:9000
  timeout: 5s
display:
  logScaleDelay: 250ms
  normalization: minmax
  normalizationMode: individual
  palette:
    - left: red
      right: blue
resolution:
  lowThresholdPercent: 60
calibration:
  wavelength: 1.54
  tiltPlaneRotation: -90
`
	if err := os.WriteFile(path, []byte(yamlText), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://backend:9000" || cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("Unexpected backend section %+v", cfg.Backend)
	}
	if cfg.Display.LogScaleDelay != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", cfg.Display.LogScaleDelay)
	}
	s := cfg.TransformSettings()
	if s.Normalization != transform.NormalizationMinMax || s.Mode != transform.ModeIndividual {
		t.Errorf("Unexpected transform settings %+v", s)
	}
	if len(cfg.Display.Palette) != 1 || cfg.Display.Palette[0].Left != "red" {
		t.Errorf("Unexpected palette %+v", cfg.Display.Palette)
	}
	if cfg.Thresholds().Low != 60 || cfg.Thresholds().Medium != 20 {
		t.Errorf("Expected partial override of thresholds, got %+v", cfg.Thresholds())
	}
	if cfg.Calibration.Wavelength != 1.54 || cfg.Calibration.TiltPlaneRotation != -90 {
		t.Errorf("Unexpected calibration %+v", cfg.Calibration)
	}
	// Untouched sections keep their defaults
	if cfg.Backend.PongToken != "pong" {
		t.Errorf("Expected default pong token, got %q", cfg.Backend.PongToken)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("display: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.Display.ThrottleInterval != def.Display.ThrottleInterval {
		t.Errorf("Expected %v after round trip, got %v", def.Display.ThrottleInterval, cfg.Display.ThrottleInterval)
	}
	if len(cfg.Display.Palette) != len(def.Display.Palette) {
		t.Errorf("Expected %d palette entries, got %d", len(def.Display.Palette), len(cfg.Display.Palette))
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"percentiles", func(c *Config) { c.Display.LowerPercentile = 90; c.Display.UpperPercentile = 10 }},
		{"factors", func(c *Config) { c.Resolution.LowFactor = 1 }},
		{"thresholds", func(c *Config) { c.Resolution.MediumThresholdPercent = 70 }},
		{"cores", func(c *Config) { c.Processing.NumCores = 0 }},
		{"delay", func(c *Config) { c.Display.LogScaleDelay = -time.Second }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
