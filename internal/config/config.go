package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "HEART_"

// Config carries every path and knob the training and serving entrypoints need.
// Values resolve in order: defaults, optional YAML file, HEART_* environment
// overrides (HEART_SERVER__PORT=9000 sets server.port).
type Config struct {
	RawDataPath       string `koanf:"raw_data_path"`
	ProcessedDataPath string `koanf:"processed_data_path"`
	SampleDataPath    string `koanf:"sample_data_path"`

	ArtifactsDir string `koanf:"artifacts_dir"`
	ModelDir     string `koanf:"model_dir"`
	PlotsDir     string `koanf:"plots_dir"`

	TrackingDir    string `koanf:"tracking_dir"`
	ExperimentName string `koanf:"experiment_name"`

	Seed         int64   `koanf:"seed"`
	TestSize     float64 `koanf:"test_size"`
	CVFolds      int     `koanf:"cv_folds"`
	QuickCVFolds int     `koanf:"quick_cv_folds"`

	LogLevel string `koanf:"log_level"`

	Server ServerConfig `koanf:"server"`
}

type ServerConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	ShutdownSeconds int    `koanf:"shutdown_seconds"`
}

func Default() Config {
	return Config{
		RawDataPath:       "data/raw/heart.csv",
		ProcessedDataPath: "data/processed/heart.csv",
		SampleDataPath:    "data/sample/heart_sample.csv",
		ArtifactsDir:      "artifacts",
		ModelDir:          "artifacts/model",
		PlotsDir:          "artifacts/plots",
		TrackingDir:       "mlruns",
		ExperimentName:    "heart-disease-uci",
		Seed:              42,
		TestSize:          0.2,
		CVFolds:           5,
		QuickCVFolds:      3,
		LogLevel:          "info",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ShutdownSeconds: 10,
		},
	}
}

// Load resolves the configuration. An explicitly given path must exist; the
// default config.yaml is picked up only when present.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	explicit := path != ""
	if path == "" {
		path = "config.yaml"
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return fmt.Errorf("test_size must be between 0 and 1, got %v", c.TestSize)
	}
	if c.CVFolds < 2 {
		return fmt.Errorf("cv_folds must be at least 2, got %d", c.CVFolds)
	}
	if c.QuickCVFolds < 2 {
		return fmt.Errorf("quick_cv_folds must be at least 2, got %d", c.QuickCVFolds)
	}
	if c.ExperimentName == "" {
		return fmt.Errorf("experiment_name must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// Folds returns the cross-validation fold count for the given mode.
func (c *Config) Folds(quick bool) int {
	if quick {
		return c.QuickCVFolds
	}
	return c.CVFolds
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
