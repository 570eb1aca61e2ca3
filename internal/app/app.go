// Package app wires configuration, logging, the auth service, and the
// backend client into one initialized core shared by the CLI commands.
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ksahdev/stockdeck/internal/auth"
	"github.com/ksahdev/stockdeck/internal/clients/backend"
	"github.com/ksahdev/stockdeck/internal/clients/gotrue"
	"github.com/ksahdev/stockdeck/internal/common"
)

// App holds the initialized clients and services used by the commands.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Auth        *auth.Service
	API         *backend.Client
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and builds the client stack. notify
// receives user-facing messages from the backend client when a call is
// dropped after exhausting retries; pass nil to discard them.
func NewApp(configPath string, notify func(message string)) (*App, error) {
	paths := []string{}
	if configPath != "" {
		paths = append(paths, configPath)
	}
	paths = append(paths,
		"stockdeck.toml",
		filepath.Join(getBinaryDir(), "stockdeck.toml"),
	)

	cfg, err := common.LoadConfig(paths...)
	if err != nil {
		return nil, err
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	provider := gotrue.NewClient(cfg.Auth.URL, cfg.Auth.AnonKey,
		gotrue.WithLogger(logger),
		gotrue.WithTimeout(cfg.Auth.GetTimeout()),
	)
	authService := auth.NewService(provider, cfg.Auth, logger)

	opts := []backend.ClientOption{
		backend.WithBaseURL(cfg.Backend.BaseURL),
		backend.WithLogger(logger),
		backend.WithTimeout(cfg.Backend.GetTimeout()),
		backend.WithRateLimit(cfg.Backend.RateLimit),
		backend.WithRetries(cfg.Backend.MaxRetries, cfg.Backend.GetRetryBase()),
	}
	if notify != nil {
		opts = append(opts, backend.WithNotifier(notify))
	}
	api := backend.NewClient(authService, opts...)

	return &App{
		Config:      cfg,
		Logger:      logger,
		Auth:        authService,
		API:         api,
		StartupTime: time.Now(),
	}, nil
}

// RequireAuthConfig reports the config keys that must be set before
// any auth flow can run.
func (a *App) RequireAuthConfig() []string {
	return a.Config.ValidateRequired()
}
