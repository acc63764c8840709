// Package app wires configuration, storage, clients, and services.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kabu-app/kabu/internal/clients/stooq"
	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/interfaces"
	"github.com/kabu-app/kabu/internal/services/portfolio"
	"github.com/kabu-app/kabu/internal/services/signal"
	"github.com/kabu-app/kabu/internal/services/watchlist"
	"github.com/kabu-app/kabu/internal/storage"
)

// App holds all initialized services and clients. It is the shared core
// behind cmd/kabu-server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuoteClient      interfaces.QuoteClient
	PortfolioService interfaces.PortfolioService
	SignalService    interfaces.SignalService
	WatchlistService interfaces.WatchlistService
	StartupTime      time.Time

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Config resolution: provided path, KABU_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("KABU_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "kabu.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/kabu.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative paths against the binary directory
	if !filepath.IsAbs(config.Storage.Internal.Path) {
		config.Storage.Internal.Path = filepath.Join(binDir, config.Storage.Internal.Path)
	}
	if !filepath.IsAbs(config.Storage.User.Path) {
		config.Storage.User.Path = filepath.Join(binDir, config.Storage.User.Path)
	}
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	quoteClient := stooq.NewClient(
		stooq.WithBaseURL(config.Clients.Stooq.BaseURL),
		stooq.WithRateLimit(config.Clients.Stooq.RateLimit),
		stooq.WithTimeout(config.Clients.Stooq.GetTimeout()),
		stooq.WithLogger(logger),
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		QuoteClient:      quoteClient,
		PortfolioService: portfolio.NewService(storageManager, quoteClient, logger),
		SignalService:    signal.NewService(quoteClient, logger),
		WatchlistService: watchlist.NewService(storageManager, logger),
		StartupTime:      time.Now(),
	}

	return a, nil
}

// StartQuoteScheduler begins the background quote re-poll loop.
func (a *App) StartQuoteScheduler() {
	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel
	interval := a.Config.Clients.Stooq.GetRefreshInterval()
	go startQuoteScheduler(ctx, a.PortfolioService, a.Storage.KeyValueStore(), a.Config.DefaultAccount, a.Logger, interval)
}

// Shutdown stops background loops and closes storage.
func (a *App) Shutdown() error {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
	}
	return a.Storage.Close()
}
