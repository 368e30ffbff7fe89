package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"placefeed/internal/accounts"
	"placefeed/internal/catalog"
	"placefeed/internal/config"
	"placefeed/internal/server"
	"placefeed/internal/session"
	"placefeed/pkg/kv"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	}

	var store kv.Store
	if cfg.RedisURL != "" {
		redis, err := kv.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis init")
		}
		defer redis.Close()
		store = redis
	} else {
		log.Warn().Msg("REDIS_URL not set, sessions and interaction state are in-memory only")
		store = kv.NewMemory()
	}

	var (
		cat       catalog.Store
		userStore accounts.Store
	)
	if cfg.DatabaseDSN != "" {
		sqlStore, err := catalog.OpenSQL(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("open catalog database")
		}
		defer sqlStore.Close()
		users, err := accounts.NewSQLStore(sqlStore.DB(), cfg.DatabaseDriver)
		if err != nil {
			log.Fatal().Err(err).Msg("init users schema")
		}
		cat, userStore = sqlStore, users
	} else {
		log.Warn().Msg("DATABASE_DSN not set, catalog and users are in-memory only")
		cat, userStore = catalog.NewMemoryStore(), accounts.NewMemoryStore()
	}

	if err := catalog.Seed(context.Background(), cat, log); err != nil {
		log.Fatal().Err(err).Msg("seed catalog")
	}

	srv := server.New(cat, accounts.NewService(userStore), session.NewManager(store), store, log)
	log.Info().Str("addr", cfg.Addr).Msg("placefeed listening")
	if err := http.ListenAndServe(cfg.Addr, srv); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}
