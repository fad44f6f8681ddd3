package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vncsmyrnk/mypolls/internal/adapters/handler/http"
	"github.com/vncsmyrnk/mypolls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/mypolls/internal/config"
	"github.com/vncsmyrnk/mypolls/internal/core/services"
	"github.com/vncsmyrnk/mypolls/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLogger().Fatal().Err(err).Msg("invalid configuration")
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		bootLogger().Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	db, err := postgres.Open(ctx, cfg.Postgres.DSN(), cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	tallyRepo := postgres.NewTallyRepository(db)
	userRepo := postgres.NewUserRepository(db)

	tallies := services.NewTallyService(tallyRepo)
	ledger := services.NewVoteService(pollRepo, voteRepo, log)
	pollService := services.NewPollService(pollRepo, userRepo, voteRepo, tallies, ledger, cfg.MaxPageSize)
	userService := services.NewUserService(userRepo, pollRepo, voteRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)

	handler := http.NewHandler(http.Handlers{
		Polls:  http.NewPollHandler(pollService, cfg.DefaultPageSize),
		Votes:  http.NewVoteHandler(pollService),
		Users:  http.NewUserHandler(userService, pollService, cfg.DefaultPageSize),
		Auth:   http.NewAuthHandler(authService),
		Health: http.NewHealthHandler(db),
	}, http.RouterOptions{
		Log:            log,
		AuthService:    authService,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &stdhttp.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown did not complete")
	}
}

func bootLogger() zerolog.Logger {
	return logger.New(logger.Options{Output: os.Stderr})
}
