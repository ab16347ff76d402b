package app

import (
	"context"
	"fmt"

	"github.com/spotarb/spot-arb/internal/engine"
	"github.com/spotarb/spot-arb/internal/exchange"
	"github.com/spotarb/spot-arb/internal/fetcher"
	"github.com/spotarb/spot-arb/internal/markets"
	"github.com/spotarb/spot-arb/internal/scanner"
	"github.com/spotarb/spot-arb/internal/storage"
	"github.com/spotarb/spot-arb/internal/store"
	"github.com/spotarb/spot-arb/internal/universe"
	"github.com/spotarb/spot-arb/pkg/cache"
	"github.com/spotarb/spot-arb/pkg/config"
	"github.com/spotarb/spot-arb/pkg/healthprobe"
	"github.com/spotarb/spot-arb/pkg/httpserver"
	"github.com/spotarb/spot-arb/pkg/websocket"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	responseCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	registry, err := setupRegistry(cfg, logger, responseCache)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup registry: %w", err)
	}

	marketsCache := markets.NewCache(registry, logger)
	universeService := universe.New(marketsCache, cfg.ScanVenues, logger)
	pairFetcher := fetcher.New(registry, marketsCache, logger)

	opportunityEngine := engine.New(engine.Config{
		TradeSizeUSDT:   cfg.TradeSizeUSDT,
		MinRawSpreadPct: cfg.MinRawSpreadPct,
		MinTradeUSDT:    cfg.MinTradeUSDT,
		Debug:           cfg.Debug,
		Logger:          logger,
	})

	snapshotStore := store.New(logger)
	hub := websocket.NewHub(logger)

	sink, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	scanLoop := scanner.New(scanner.Config{
		Interval:  cfg.ScanInterval,
		BatchSize: cfg.ScanBatchSize,
		Venues:    cfg.ScanVenues,
		Logger:    logger,
	}, universeService, pairFetcher, opportunityEngine, snapshotStore, hub, sink)

	httpServer := httpserver.New(httpserver.Config{
		Port:     cfg.HTTPPort,
		CacheTTL: cfg.ResponseCacheTTL,
		Logger:   logger,
	}, snapshotStore, hub, healthChecker, responseCache)

	// Readiness follows the first published scan cycle.
	healthChecker.SetReadyCheck(snapshotStore.Ready)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		responseCache: responseCache,
		registry:      registry,
		marketsCache:  marketsCache,
		universe:      universeService,
		fetcher:       pairFetcher,
		engine:        opportunityEngine,
		store:         snapshotStore,
		hub:           hub,
		storage:       sink,
		scanner:       scanLoop,
		httpServer:    httpServer,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 100000, // 10x expected max items
		MaxCost:     10000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupRegistry(cfg *config.Config, logger *zap.Logger, responseCache cache.Cache) (*exchange.Registry, error) {
	return exchange.NewRegistry(&exchange.RegistryConfig{
		Venues:        cfg.ScanVenues,
		Timeout:       cfg.AdapterTimeout,
		RateRPS:       cfg.AdapterRateRPS,
		RateBurst:     cfg.AdapterRateBurst,
		ResponseCache: responseCache,
		CacheTTL:      cfg.ResponseCacheTTL,
		Logger:        logger,
	})
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser,
		cfg.PostgresPass, cfg.PostgresDB, cfg.PostgresSSL)

	return storage.New(storage.Config{
		Mode:        cfg.StorageMode,
		PostgresDSN: dsn,
		Logger:      logger,
	})
}
