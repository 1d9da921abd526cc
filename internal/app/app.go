package app

import (
	"io"
	"log/slog"

	"github.com/vk/ts-dumper/internal/transkribus"
)

const (
	// Name is the program name shown in usage and version output.
	Name = "ts-dumper"
	// Version is the released version string.
	Version = "0.0.2-dev0"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	client *transkribus.Client
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and API client.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.Verbosity, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		client: transkribus.NewClient(cfg.BaseURL, cfg.Timeout),
	}
}

// Close releases the App's network resources.
func (a *App) Close() error { return a.client.Close() }
