package storage

import (
	"context"
	"fmt"

	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// Storage persists detected opportunities.
type Storage interface {
	// StoreOpportunities persists a tick's opportunity batch.
	StoreOpportunities(ctx context.Context, opportunities []types.Opportunity) error

	// Close releases underlying resources.
	Close() error
}

// Config selects and configures a storage backend.
type Config struct {
	// Mode is "console" or "postgres".
	Mode string

	PostgresDSN string

	Logger *zap.Logger
}

// New creates the storage backend named by cfg.Mode.
func New(cfg Config) (Storage, error) {
	switch cfg.Mode {
	case "console", "":
		return NewConsole(cfg.Logger), nil
	case "postgres":
		return NewPostgres(cfg.PostgresDSN, cfg.Logger)
	default:
		return nil, fmt.Errorf("unknown storage mode: %s", cfg.Mode)
	}
}
