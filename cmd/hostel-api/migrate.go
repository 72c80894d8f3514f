package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-hostel-backend/internal/config"
	"github.com/tbourn/go-hostel-backend/internal/observability"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables (sqlite, postgres) or indexes (mongo)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			observability.SetupLogging(cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)

			store, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := migrate(cmd.Context(), store, cfg.Store.Timeout); err != nil {
				return err
			}
			log.Info().Str("driver", cfg.Store.Driver).Msg("migration complete")
			return nil
		},
	}
}
