// Package app wires configuration, storage, clients, and services into one
// application core.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/whoisarjen/investo/internal/clients/eodhd"
	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/interfaces"
	"github.com/whoisarjen/investo/internal/pricecache"
	"github.com/whoisarjen/investo/internal/services/portfolio"
	"github.com/whoisarjen/investo/internal/services/quote"
	"github.com/whoisarjen/investo/internal/storage"
)

// App holds all initialized services, clients, and shared infrastructure.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Store            interfaces.PortfolioStore
	PriceCache       *pricecache.Cache
	QuoteClient      interfaces.QuoteClient
	QuoteService     interfaces.QuoteService
	PortfolioService interfaces.PortfolioService
	StartupTime      time.Time

	prunerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	// Config resolution: explicit path, INVESTO_CONFIG, binary dir, dev fallback.
	if configPath == "" {
		configPath = os.Getenv("INVESTO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "investo.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/investo.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewPortfolioStore(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if config.Clients.EODHD.APIKey == "" {
		logger.Warn().Msg("EODHD API key not configured - quote refresh will fail")
	}

	quoteClient := eodhd.NewClient(config.Clients.EODHD.APIKey,
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithLogger(logger),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
	)

	priceCache := pricecache.New(store, logger)
	quoteService := quote.NewService(quoteClient, priceCache, logger)
	portfolioService := portfolio.NewService(store, quoteService, priceCache, logger)

	logger.Info().
		Str("environment", config.Environment).
		Str("storage", config.Storage.Backend).
		Str("version", common.GetVersion()).
		Msg("Application initialized")

	return &App{
		Config:           config,
		Logger:           logger,
		Store:            store,
		PriceCache:       priceCache,
		QuoteClient:      quoteClient,
		QuoteService:     quoteService,
		PortfolioService: portfolioService,
		StartupTime:      time.Now(),
	}, nil
}

// Close releases all resources.
func (a *App) Close() {
	a.StopCachePruner()
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
	}
}
