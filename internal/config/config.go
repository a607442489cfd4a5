package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config captures the settings for one analysis run.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InputConfig describes the raw tabular source.
type InputConfig struct {
	Path         string `yaml:"path"`
	DateColumn   string `yaml:"dateColumn"`
	SpendColumn  string `yaml:"spendColumn"`
	VisitsColumn string `yaml:"visitsColumn"`
}

// OutputConfig describes the enriched table sink. An empty path disables the
// export.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// PipelineConfig holds the stage tunables.
type PipelineConfig struct {
	// OutlierThreshold is the flagging threshold in multiples of the
	// scaled MAD.
	OutlierThreshold float64 `yaml:"outlierThreshold"`
	// HuberTuning is the robust-fit threshold in multiples of the robust
	// residual scale.
	HuberTuning float64 `yaml:"huberTuning"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// MetricsConfig controls the optional Prometheus listener. An empty address
// disables it.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SPENDLENS_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Input: InputConfig{
			DateColumn:   "date",
			SpendColumn:  "ad_spend",
			VisitsColumn: "visits",
		},
		Pipeline: PipelineConfig{
			OutlierThreshold: 3.0,
			HuberTuning:      1.345,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPENDLENS_INPUT"); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv("SPENDLENS_OUTPUT"); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv("SPENDLENS_DATE_COLUMN"); v != "" {
		cfg.Input.DateColumn = v
	}
	if v := os.Getenv("SPENDLENS_SPEND_COLUMN"); v != "" {
		cfg.Input.SpendColumn = v
	}
	if v := os.Getenv("SPENDLENS_VISITS_COLUMN"); v != "" {
		cfg.Input.VisitsColumn = v
	}
	if v := os.Getenv("SPENDLENS_OUTLIER_THRESHOLD"); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil && threshold > 0 {
			cfg.Pipeline.OutlierThreshold = threshold
		}
	}
	if v := os.Getenv("SPENDLENS_HUBER_TUNING"); v != "" {
		if tuning, err := strconv.ParseFloat(v, 64); err == nil && tuning > 0 {
			cfg.Pipeline.HuberTuning = tuning
		}
	}
	if v := os.Getenv("SPENDLENS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SPENDLENS_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("SPENDLENS_METRICS_ADDRESS"); v != "" {
		cfg.Metrics.Address = v
	}
}
