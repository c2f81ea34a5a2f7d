package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultEconomicSource is the published historical and projected indicator dataset.
const DefaultEconomicSource = "https://raw.githubusercontent.com/hgobinds/HDB_data/9a824522e6112704fd902c933d90d9691e70cf3c/sg_econ_data_historical_future.csv"

type Config struct {
	Port     string `env:"PORT" envDefault:"8000"`
	Env      string `env:"GO_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Model
	ModelPath       string        `env:"MODEL_PATH" envDefault:"model/linear_pipeline.json"`
	ModelServiceURL string        `env:"MODEL_SERVICE_URL"`
	ModelTimeout    time.Duration `env:"MODEL_TIMEOUT" envDefault:"30s"`

	// Economic data: an http(s) CSV URL, a postgres:// DSN, an .xlsx path,
	// a CSV path or "memory". An empty sheet selects the workbook's first sheet.
	EconomicSource string `env:"ECONOMIC_SOURCE"`
	EconomicSheet  string `env:"ECONOMIC_SHEET"`

	// Server
	StartupTimeout time.Duration `env:"STARTUP_TIMEOUT" envDefault:"30s"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	CORSOrigins    string        `env:"CORS_ORIGINS" envDefault:"*"`
}

// Load reads an optional .env file and parses the environment into a Config
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.EconomicSource == "" {
		cfg.EconomicSource = DefaultEconomicSource
	}
	if cfg.ModelPath == "" && cfg.ModelServiceURL == "" {
		return nil, fmt.Errorf("config: one of MODEL_PATH or MODEL_SERVICE_URL is required")
	}

	return cfg, nil
}

// Level returns the configured log level, falling back to info
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
