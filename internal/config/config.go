package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server  ServerConfig
	Advisor AdvisorConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type AdvisorConfig struct {
	BaseURL   string
	Mock      bool
	MockDelay string // Go duration, e.g. "2s"
}

type LogConfig struct {
	Level string
	File  string // rotating log file; empty logs to stderr only
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Advisor: AdvisorConfig{
			BaseURL:   "https://skill-up-react-website-backend.onrender.com",
			MockDelay: "2s",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON config file and environment
// variables. The file lives at $XDG_CONFIG_HOME/pathcraft/config.json
// (falling back to ~/.config). Environment variables (PATHCRAFT_*) override
// file values.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}
	if !cfg.Advisor.Mock && cfg.Advisor.BaseURL == "" {
		return Config{}, fmt.Errorf("missing required config: advisor.base_url. " +
			"Set it via environment variable PATHCRAFT_ADVISOR_BASE_URL or enable advisor.mock")
	}

	return cfg, nil
}

// MockDelayDuration parses Advisor.MockDelay, returning fallback when it
// is empty or malformed.
func (c Config) MockDelayDuration(fallback time.Duration) (time.Duration, error) {
	if c.Advisor.MockDelay == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(c.Advisor.MockDelay)
	if err != nil {
		return fallback, fmt.Errorf("parsing advisor.mock_delay %q: %w", c.Advisor.MockDelay, err)
	}
	return d, nil
}
