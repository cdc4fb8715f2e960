package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// RuntimeOptions are process options taken from the environment.
// Command-line flags override them.
type RuntimeOptions struct {
	SettingsDir string `env:"CRIUS_SETTINGS_DIR"`
	LogLevel    string `env:"CRIUS_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"CRIUS_LOG_FORMAT" envDefault:"console"`
	Workers     int    `env:"CRIUS_WORKERS" envDefault:"0"`
	MetricsAddr string `env:"CRIUS_METRICS_ADDR"`
	Trace       bool   `env:"CRIUS_TRACE" envDefault:"false"`
}

// ParseEnv loads runtime options from environment variables
func ParseEnv() (RuntimeOptions, error) {
	var opts RuntimeOptions
	if err := env.Parse(&opts); err != nil {
		return RuntimeOptions{}, fmt.Errorf("parse env: %w", err)
	}
	return opts, nil
}
