package app

import (
	"errors"
	"fmt"
	"time"
)

// verbosityLevels are the levels accepted on the command line, mirroring
// syslog-style logging levels.
var verbosityLevels = []string{"CRITICAL", "ERROR", "WARNING", "INFO", "DEBUG"}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CollectionName string
	Username       string
	Password       string
	TargetDir      string

	BaseURL string
	Timeout time.Duration

	Verbosity string
	LogFormat string
	Workers   int
	ShowTrace bool
}

// NewConfig validates cfg and fills in defaults for optional fields.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.CollectionName == "" {
		return nil, errors.New("CollectionName is a required configuration field and cannot be empty")
	}
	if cfg.Username == "" {
		return nil, errors.New("Username is a required configuration field and cannot be empty")
	}
	if cfg.Password == "" {
		return nil, errors.New("Password is a required configuration field and cannot be empty")
	}
	if cfg.TargetDir == "" {
		cfg.TargetDir = "."
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Verbosity == "" {
		cfg.Verbosity = "WARNING"
	}
	if !validVerbosity(cfg.Verbosity) {
		return nil, fmt.Errorf("invalid verbosity %q: must be one of CRITICAL, ERROR, WARNING, INFO or DEBUG", cfg.Verbosity)
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &cfg, nil
}

func validVerbosity(level string) bool {
	for _, l := range verbosityLevels {
		if l == level {
			return true
		}
	}
	return false
}
