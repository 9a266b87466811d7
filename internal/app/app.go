// Package app wires configuration, logging, and the bank client factory.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boursagent/boursagent/internal/clients/bourso"
	"github.com/boursagent/boursagent/internal/common"
	"github.com/boursagent/boursagent/internal/interfaces"
)

// App holds the initialized configuration, logger, and client factory.
// Sessions are short-lived and cheap to establish, so the app deliberately
// holds no shared BankClient: each façade request builds its own through
// NewBankClient and discards it afterwards.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	NewBankClient interfaces.ClientFactory
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, and the client factory.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, BOURSAGENT_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("BOURSAGENT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "boursagent.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/boursagent.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	boursoCfg := config.Clients.Bourso
	factory := func() interfaces.BankClient {
		opts := []bourso.ClientOption{
			bourso.WithLogger(logger),
			bourso.WithTimeout(boursoCfg.GetTimeout()),
		}
		if boursoCfg.BaseURL != "" {
			opts = append(opts, bourso.WithBaseURL(boursoCfg.BaseURL))
		}
		if boursoCfg.UserAgent != "" {
			opts = append(opts, bourso.WithUserAgent(boursoCfg.UserAgent))
		}
		if boursoCfg.RateLimit > 0 {
			opts = append(opts, bourso.WithRateLimit(boursoCfg.RateLimit))
		}
		return bourso.NewClient(opts...)
	}

	return &App{
		Config:        config,
		Logger:        logger,
		NewBankClient: factory,
		StartupTime:   time.Now(),
	}, nil
}
