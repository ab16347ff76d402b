package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/lib/pq"
	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

const createTableStmt = `
CREATE TABLE IF NOT EXISTS opportunities (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	buy_exchange TEXT NOT NULL,
	sell_exchange TEXT NOT NULL,
	spread_pct DOUBLE PRECISION NOT NULL,
	net_profit_abs DOUBLE PRECISION NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	detected_at TIMESTAMPTZ NOT NULL,
	payload JSONB NOT NULL
)`

const insertStmt = `
INSERT INTO opportunities
	(id, symbol, buy_exchange, sell_exchange, spread_pct, net_profit_abs, confidence, detected_at, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING`

// Postgres persists opportunities to a PostgreSQL table.
type Postgres struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgres opens a connection pool, verifies connectivity, and
// ensures the schema exists.
func NewPostgres(dsn string, logger *zap.Logger) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	logger.Info("postgres-storage-connected")

	return &Postgres{db: db, logger: logger}, nil
}

// NewPostgresWithDB wraps an existing pool. Used by tests.
func NewPostgresWithDB(db *sql.DB, logger *zap.Logger) *Postgres {
	return &Postgres{db: db, logger: logger}
}

// StoreOpportunities inserts the batch in one transaction. Duplicate IDs
// are skipped rather than erroring.
func (p *Postgres) StoreOpportunities(ctx context.Context, opportunities []types.Opportunity) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertStmt)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, opp := range opportunities {
		payload, err := json.Marshal(opp)
		if err != nil {
			return fmt.Errorf("failed to marshal opportunity %s: %w", opp.ID, err)
		}

		if _, err := stmt.ExecContext(ctx,
			opp.ID,
			opp.Symbol,
			string(opp.BuyVenue),
			string(opp.SellVenue),
			opp.SpreadPct,
			opp.NetProfitAbs,
			opp.Estimates.ConfidenceScore,
			opp.Timestamp,
			payload,
		); err != nil {
			return fmt.Errorf("failed to insert opportunity %s: %w", opp.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
