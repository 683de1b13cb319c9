package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/finbook/marketdata/internal/api"
	"github.com/finbook/marketdata/internal/cache"
	"github.com/finbook/marketdata/internal/config"
	"github.com/finbook/marketdata/internal/database"
	"github.com/finbook/marketdata/internal/events"
	"github.com/finbook/marketdata/internal/feed"
	"github.com/finbook/marketdata/internal/models"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := newLogger(cfg.Logging.Level)

	store, cleanup, err := newStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize snapshot store")
	}
	defer cleanup()

	fetcher := feed.NewFetcher(cfg.Feeds.EquitySources, cfg.Feeds.FundSources, cfg.Feeds.Timeout(), log)
	static := feed.NewStaticLoader()

	opts := []cache.Option{cache.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		opts = append(opts, cache.WithPublisher(producer))
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("cache event publishing enabled")
	}
	manager := cache.NewManager(store, fetcher, static, opts...)

	scheduler := newScheduler(cfg.Cache.RefreshSchedule, manager, log)
	if scheduler != nil {
		scheduler.Start()
		defer scheduler.Stop()
	}

	handler := api.NewHandler(manager, log)
	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      api.SetupRoutes(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("market data service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

// newStore builds the configured snapshot store backend.
func newStore(cfg *config.Config, log zerolog.Logger) (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis snapshot store")
		return cache.NewRedisStore(client), func() { client.Close() }, nil

	default:
		db, err := database.New(cfg.Database.ConnectionString())
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Str("host", cfg.Database.Host).Msg("using postgres snapshot store")
		return db, func() { db.Close() }, nil
	}
}

// newScheduler wires the daily refresh so prices are already resolved when
// the tracker is opened in the evening.
func newScheduler(schedule string, manager *cache.Manager, log zerolog.Logger) *cron.Cron {
	if schedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		for _, class := range models.CachedClasses {
			snap := manager.Refresh(ctx, class)
			log.Info().
				Str("class", string(class)).
				Int("records", snap.Len()).
				Msg("scheduled refresh complete")
		}
	})
	if err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("invalid refresh schedule")
		return nil
	}
	return c
}
