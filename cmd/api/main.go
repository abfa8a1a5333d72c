package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"giftfinder/internal/cache"
	"giftfinder/internal/config"
	"giftfinder/internal/database"
	"giftfinder/internal/events"
	"giftfinder/internal/logger"
	"giftfinder/internal/server"
	"giftfinder/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	lg := logger.New(cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal().Err(err).Msg("api stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, lg zerolog.Logger) error {
	database.LogTarget(lg, cfg.DatabaseURL)
	db, err := database.Connect(cfg.DatabaseURL, database.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			lg.Error().Err(err).Msg("close database")
		}
	}()
	if err := database.Migrate(db); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		lg.Info().Msg("redis connected")
	} else {
		lg.Warn().Msg("REDIS_URL not set, click de-duplication and stats cache disabled")
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTrackingTopic, lg)
		if err != nil {
			return err
		}
		lg.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTrackingTopic).Msg("kafka publisher ready")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			lg.Error().Err(err).Msg("close publisher")
		}
	}()

	store, err := storage.New(ctx, cfg, lg)
	if err != nil {
		return err
	}

	router := server.NewRouter(server.Deps{
		Config:    cfg,
		Log:       lg,
		DB:        db,
		Redis:     redisClient,
		Publisher: publisher,
		Storage:   store,
	})

	return server.New(cfg.Addr(), router, lg, cfg.ShutdownTimeout).Run(ctx)
}
