package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tbourn/go-hostel-backend/internal/config"
	"github.com/tbourn/go-hostel-backend/internal/mongostore"
	"github.com/tbourn/go-hostel-backend/internal/repo"
	"github.com/tbourn/go-hostel-backend/internal/services"
)

// openStore connects the backend selected by DB_DRIVER.
func openStore(ctx context.Context, cfg config.StoreConfig) (services.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return repo.NewStore(db), nil
	case config.DriverPostgres:
		db, err := repo.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return repo.NewStore(db), nil
	case config.DriverMongo:
		cctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		s, err := mongostore.Open(cctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
	}
}

// migrate brings the schema (or document indexes) up to date.
func migrate(ctx context.Context, store services.Store, timeout time.Duration) error {
	mctx, cancel := context.WithTimeout(ctx, 4*timeout)
	defer cancel()
	return store.Migrate(mctx)
}
