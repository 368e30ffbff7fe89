// Reloads the embedded seed dataset into the configured catalog database,
// overwriting records with matching ids.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"placefeed/internal/catalog"
	"placefeed/internal/config"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal().Msg("DATABASE_DSN is required for seeding")
	}

	store, err := catalog.OpenSQL(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("open catalog database")
	}
	defer store.Close()

	if err := catalog.Reseed(context.Background(), store, log); err != nil {
		log.Fatal().Err(err).Msg("reseed")
	}
}
