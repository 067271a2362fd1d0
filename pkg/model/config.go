package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the quality thresholds for analysis and interpolation.
// All values are validated before any video is processed.
type Config struct {
	// MinConfidence is the mean keypoint confidence below which a frame is
	// lowConfidence. Range [0,1].
	MinConfidence float64 `yaml:"min_confidence"`

	// BoundaryThreshold is the fraction of each image edge treated as the
	// boundary zone for off-screen detection. Range [0,0.5].
	BoundaryThreshold float64 `yaml:"boundary_threshold"`

	// OffScreenConfidence is the confidence floor below which a
	// boundary-adjacent frame is off-screen rather than merely low
	// confidence. Range [0,1].
	OffScreenConfidence float64 `yaml:"off_screen_confidence"`

	// OutlierDeviationThreshold is the normalized deviation from the trend
	// window above which a frame is an outlier. Range [0,1].
	OutlierDeviationThreshold float64 `yaml:"outlier_deviation_threshold"`

	// TrendWindowSize is the sliding window used for outlier detection.
	// Odd integer in [3,20].
	TrendWindowSize int `yaml:"trend_window_size"`

	// MaxInterpolationGap is the widest run of rejected frames that may be
	// bridged by interpolation. Range [1,100].
	MaxInterpolationGap int `yaml:"max_interpolation_gap"`
}

func DefaultConfig() *Config {
	return &Config{
		MinConfidence:             0.3,
		BoundaryThreshold:         0.05,
		OffScreenConfidence:       0.5,
		OutlierDeviationThreshold: 0.15,
		TrendWindowSize:           5,
		MaxInterpolationGap:       3,
	}
}

// LoadConfig reads a YAML configuration file over the defaults and
// validates it. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on out-of-range thresholds.
func (c *Config) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return &ConfigError{Field: "min_confidence", Value: c.MinConfidence, Reason: "must be in [0,1]"}
	}
	if c.BoundaryThreshold < 0 || c.BoundaryThreshold > 0.5 {
		return &ConfigError{Field: "boundary_threshold", Value: c.BoundaryThreshold, Reason: "must be in [0,0.5]"}
	}
	if c.OffScreenConfidence < 0 || c.OffScreenConfidence > 1 {
		return &ConfigError{Field: "off_screen_confidence", Value: c.OffScreenConfidence, Reason: "must be in [0,1]"}
	}
	if c.OutlierDeviationThreshold < 0 || c.OutlierDeviationThreshold > 1 {
		return &ConfigError{Field: "outlier_deviation_threshold", Value: c.OutlierDeviationThreshold, Reason: "must be in [0,1]"}
	}
	if c.TrendWindowSize < 3 || c.TrendWindowSize > 20 {
		return &ConfigError{Field: "trend_window_size", Value: float64(c.TrendWindowSize), Reason: "must be in [3,20]"}
	}
	if c.TrendWindowSize%2 == 0 {
		return &ConfigError{Field: "trend_window_size", Value: float64(c.TrendWindowSize), Reason: "must be odd"}
	}
	if c.MaxInterpolationGap < 1 || c.MaxInterpolationGap > 100 {
		return &ConfigError{Field: "max_interpolation_gap", Value: float64(c.MaxInterpolationGap), Reason: "must be in [1,100]"}
	}
	return nil
}
