package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/aussiebroadwan/shopcart/internal/shop/store/drivers/postgres"
	"github.com/aussiebroadwan/shopcart/internal/shop/store/drivers/sqlite"
	"github.com/prometheus/client_golang/prometheus"
)

// openStore opens the configured driver. The collector is nil for drivers
// without pool statistics.
func openStore(ctx context.Context, cfg Config, logger *slog.Logger) (store.Store, prometheus.Collector, error) {
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		pgCfg := postgres.DefaultConfig(cfg.DatabaseURL)
		pgCfg.MaxConns = cfg.DBMaxConns
		pgCfg.MinConns = cfg.DBMinConns

		db, err := postgres.NewStore(ctx, pgCfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return db, db.Collector(), nil

	case DriverSQLite:
		dsn := cfg.DatabaseURL
		if dsn != ":memory:" {
			dsn = sqlite.FileDSN(dsn)
		}
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return db, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}
