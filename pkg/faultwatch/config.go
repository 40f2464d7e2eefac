package faultwatch

import (
	"github.com/ghalamif/FaultWatch/internal/app/config"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// WatchConfig holds the input/output paths and poll interval.
	WatchConfig = config.WatchConfig
	// TimescaleConfig configures the optional database mirror.
	TimescaleConfig = config.TimescaleConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// ReportConfig configures the optional XLSX and PDF mirrors.
	ReportConfig = config.ReportConfig
)

// LoadConfig loads YAML from disk using the internal config reader. An empty
// path returns the defaults with environment overrides applied.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return config.Default()
}
