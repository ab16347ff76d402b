package app

import (
	"context"
	"sync"

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

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	responseCache cache.Cache
	registry      *exchange.Registry
	marketsCache  *markets.Cache
	universe      *universe.Service
	fetcher       *fetcher.Fetcher
	engine        *engine.Engine
	store         *store.Store
	hub           *websocket.Hub
	storage       storage.Storage
	scanner       *scanner.Scanner
	httpServer    *httpserver.Server
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}
