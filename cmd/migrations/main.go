package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vncsmyrnk/mypolls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/mypolls/internal/config"
	"github.com/vncsmyrnk/mypolls/pkg/logger"
)

// Usage: migrations up|down|<migration name>
func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Options{Pretty: true, Output: os.Stderr})

	if len(os.Args) < 2 {
		log.Fatal().Msg("a migration direction (up, down) or migration name is required")
	}
	target := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := postgres.Open(ctx, cfg.Postgres.DSN(), 1)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	switch target {
	case postgres.MigrateUp, postgres.MigrateDown:
		err = postgres.Migrate(ctx, db, target)
	default:
		err = postgres.RunMigration(ctx, db, target)
	}
	if err != nil {
		log.Fatal().Err(err).Str("migration", target).Msg("migration failed")
	}

	log.Info().Str("migration", target).Msg("migration executed successfully")
}
