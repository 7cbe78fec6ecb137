package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the grapher tools
type Config struct {
	// Remote site endpoints
	GrapherURL string `env:"GRAPHER_URL,default=https://ourworldindata.org/grapher/"`
	DataURL    string `env:"GRAPHER_DATA_URL,default=https://ourworldindata.org/grapher/data/variables/%s.json?v=%d"`

	// Epoch date for day-encoded time axes; process-wide, never mutated
	// after start-up
	EpochDate string `env:"GRAPHER_EPOCH,default=1970-01-01"`

	// Output configuration
	OutputDir      string `env:"OUTPUT_DIR,default=./notebooks"`
	DeploymentMode string `env:"DEPLOYMENT_MODE,default=local"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// Service configuration
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if _, err := cfg.Epoch(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Epoch parses the configured epoch date
func (c *Config) Epoch() (time.Time, error) {
	epoch, err := time.Parse("2006-01-02", c.EpochDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid GRAPHER_EPOCH %q: %w", c.EpochDate, err)
	}
	return epoch, nil
}
