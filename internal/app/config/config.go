package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Watch     WatchConfig     `yaml:"watch"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Timescale TimescaleConfig `yaml:"timescale"`
	Report    ReportConfig    `yaml:"report"`
}

type WatchConfig struct {
	InputPath    string        `yaml:"input_path"`
	OutputPath   string        `yaml:"output_path"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type MetricsConfig struct {
	Addr     string `yaml:"addr"`
	Disabled bool   `yaml:"disabled"`
}

// TimescaleConfig enables the database mirror when ConnString is set.
type TimescaleConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

// ReportConfig enables the XLSX and PDF mirrors when their paths are set.
type ReportConfig struct {
	XLSXPath string `yaml:"xlsx_path"`
	PDFPath  string `yaml:"pdf_path"`
}

const (
	DefaultInputPath    = "data/sensor_log.csv"
	DefaultOutputPath   = "data/fault_log.csv"
	DefaultPollInterval = 2 * time.Second
)

// Environment variables that override file values.
const (
	EnvInputPath    = "FAULTWATCH_INPUT_PATH"
	EnvOutputPath   = "FAULTWATCH_OUTPUT_PATH"
	EnvPollInterval = "FAULTWATCH_POLL_INTERVAL"
	EnvMetricsAddr  = "FAULTWATCH_METRICS_ADDR"
	EnvTimescaleDSN = "FAULTWATCH_TIMESCALE_DSN"
	EnvReportXLSX   = "FAULTWATCH_REPORT_XLSX"
	EnvReportPDF    = "FAULTWATCH_REPORT_PDF"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Load reads YAML from path. An empty path yields the defaults. Environment
// overrides are applied after the file.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration without consulting the
// environment.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Watch.InputPath == "" {
		c.Watch.InputPath = DefaultInputPath
	}
	if c.Watch.OutputPath == "" {
		c.Watch.OutputPath = DefaultOutputPath
	}
	if c.Watch.PollInterval == 0 {
		c.Watch.PollInterval = DefaultPollInterval
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Timescale.Table == "" {
		c.Timescale.Table = "fault_readings"
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvInputPath); v != "" {
		c.Watch.InputPath = v
	}
	if v := os.Getenv(EnvOutputPath); v != "" {
		c.Watch.OutputPath = v
	}
	if v := os.Getenv(EnvPollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPollInterval, err)
		}
		c.Watch.PollInterval = d
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv(EnvTimescaleDSN); v != "" {
		c.Timescale.ConnString = v
	}
	if v := os.Getenv(EnvReportXLSX); v != "" {
		c.Report.XLSXPath = v
	}
	if v := os.Getenv(EnvReportPDF); v != "" {
		c.Report.PDFPath = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Watch.InputPath == "" {
		return fmt.Errorf("watch.input_path is required")
	}
	if c.Watch.OutputPath == "" {
		return fmt.Errorf("watch.output_path is required")
	}
	if filepath.Clean(c.Watch.InputPath) == filepath.Clean(c.Watch.OutputPath) {
		return fmt.Errorf("watch.output_path must differ from watch.input_path")
	}
	if c.Watch.PollInterval <= 0 {
		return fmt.Errorf("watch.poll_interval must be positive, got %s", c.Watch.PollInterval)
	}
	if !c.Metrics.Disabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	if c.Timescale.ConnString != "" && !tableName.MatchString(c.Timescale.Table) {
		return fmt.Errorf("timescale.table %q is not a valid identifier", c.Timescale.Table)
	}
	if c.Report.XLSXPath != "" && !strings.EqualFold(filepath.Ext(c.Report.XLSXPath), ".xlsx") {
		return fmt.Errorf("report.xlsx_path must end in .xlsx")
	}
	if c.Report.PDFPath != "" && !strings.EqualFold(filepath.Ext(c.Report.PDFPath), ".pdf") {
		return fmt.Errorf("report.pdf_path must end in .pdf")
	}
	return nil
}
