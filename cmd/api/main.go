package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/open-builders/giveaway-engine/internal/common/config"
	"github.com/open-builders/giveaway-engine/internal/common/logger"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/notify"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/repository"
	giveawayRedis "github.com/open-builders/giveaway-engine/internal/features/giveaway/repository/redis"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/service"
	"github.com/open-builders/giveaway-engine/internal/platform/redis"
	"github.com/open-builders/giveaway-engine/internal/platform/telegram"
	"github.com/open-builders/giveaway-engine/internal/workers"
)

// @title           Giveaway Engine API
// @version         1.0
// @description     Time-boxed prize drawings with role and level gates, weighted entries and claim tracking.

// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init-Data
// @description Telegram Mini App init data

// @tag.name giveaways
// @tag.description Giveaway lifecycle: creation, joining and prize claims

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(serviceName, false, logger.FormatConsole)
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(serviceName, cfg.Debug, cfg.LogFormat)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting giveaway engine")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := redis.Open(ctx, redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ConnectTries: cfg.Redis.ConnectTries,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(registry)

	store := repository.NewStore(giveawayRedis.NewRedisGiveawayRepository(rdb.Client), repository.StoreOptions{
		Retry: repository.RetryPolicy{
			MaxTries:       cfg.Persistence.MaxRetries,
			InitialBackoff: cfg.Persistence.InitialBackoff,
			MaxBackoff:     cfg.Persistence.MaxBackoff,
		},
		OnPersistFailure: metrics.ObservePersistFailure,
	})
	loaded, err := store.Load(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load giveaways")
	}
	logger.Info().Int("count", loaded).Msg("Giveaways loaded")

	bot := telegram.NewClient(cfg.Telegram.BotToken)
	announcer := notify.NewTelegramAnnouncer(bot, cfg.Telegram.AnnounceChatID, cfg.Telegram.WebAppBaseURL)
	directory := notify.NewRedisDirectory(rdb.Client)

	svc := service.New(store, announcer, directory, service.Options{Metrics: metrics})

	// Ends anything that expired while the process was down before serving.
	scheduler := service.NewScheduler(svc, cfg.Giveaway.TickInterval, cfg.Giveaway.MaxConcurrentEnds)
	scheduler.Start()

	sweeper := workers.NewRetentionSweeper(svc, cfg.Giveaway.RetentionPeriod, cfg.Giveaway.RetentionInterval)
	sweeper.Start()

	memberEvents := workers.NewMemberEventsWorker(rdb.Client, directory, cfg.Giveaway.MemberEventsStream, 5*time.Second)
	eventsDone := make(chan struct{})
	go func() {
		defer close(eventsDone)
		memberEvents.Start(ctx)
	}()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(routerDeps{cfg: cfg, service: svc, redis: rdb, registry: registry})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	cancel()
	<-eventsDone
	if pending := drain(shutdownCtx, store, scheduler, sweeper); pending > 0 {
		logger.Warn().Int("pending", pending).Msg("Giveaway writes still not persisted at exit")
	}
	logger.Info().Msg("Server exited")
}
