package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vncsmyrnk/mypolls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/mypolls/internal/config"
	"github.com/vncsmyrnk/mypolls/internal/core/services"
	"github.com/vncsmyrnk/mypolls/pkg/logger"
)

// Prints one JSON summary per poll on stdout. Logs go to stderr.
func main() {
	_ = godotenv.Load()

	timeout := flag.Duration("timeout", 5*time.Minute, "maximum duration of the job")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.New(logger.Options{Output: os.Stderr})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Output: os.Stderr})

	db, err := postgres.Open(ctx, cfg.Postgres.DSN(), cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	pollRepo := postgres.NewPollRepository(db)
	tallies := services.NewTallyService(postgres.NewTallyRepository(db))
	summaryService := services.NewSummaryService(pollRepo, tallies, cfg.SummaryBatchSize)

	log.Info().Msg("starting vote summarization job")

	summaries, err := summaryService.SummarizeAllPolls(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to summarize votes")
	}

	enc := json.NewEncoder(os.Stdout)
	for _, s := range summaries {
		if err := enc.Encode(s); err != nil {
			log.Fatal().Err(err).Msg("failed to write summary")
		}
	}

	log.Info().Int("polls", len(summaries)).Msg("vote summarization completed")
}
