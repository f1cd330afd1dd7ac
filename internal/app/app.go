// Copyright (c) 2025 Webrex Studio. All Rights Reserved.
// This is licensed software from Webrex Studio, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/internal/bootstrap"
	"github.com/webrexstudio/review-engagement/internal/config"
	"github.com/webrexstudio/review-engagement/internal/server"
	channelBuiltin "github.com/webrexstudio/review-engagement/pkg/channel/builtin"
	"github.com/webrexstudio/review-engagement/pkg/handler"
	"github.com/webrexstudio/review-engagement/pkg/scheduler"
	"github.com/webrexstudio/review-engagement/pkg/service"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	httpServer        *server.HTTPServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	sweepCron         *cron.Cron
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance.
//
// Components are initialized in dependency order:
// 1. Redis (state, device and adoption storage)
// 2. Scheduler config (YAML: surfaces, gates, channels)
// 3. External collaborators (webhook client)
// 4. Pipeline components (signal → gates → channels)
// 5. Chat sweep cron
// 6. Servers (API, metrics)
// 7. Telemetry (OpenTelemetry tracing)
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Initialize Redis
	// ============================================================
	if err := app.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	// ============================================================
	// Step 2: Load scheduler configuration
	// ============================================================
	schedulerConfig, err := scheduler.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduler config from %s: %w", cfg.ConfigPath, err)
	}
	logrus.Infof("loaded scheduler configuration from %s", cfg.ConfigPath)

	// ============================================================
	// Step 3: Initialize external collaborators
	// ============================================================
	stateStore := service.NewRedisReviewStateStore(app.redisClient, service.RedisReviewStateStoreConfig{})
	deviceStore := service.NewRedisDeviceStore(app.redisClient, service.RedisDeviceStoreConfig{})
	adoption := service.NewRedisAdoptionTracker(app.redisClient, service.RedisAdoptionTrackerConfig{})
	telemetry := service.NewLogEventLogger()

	// Without a webhook URL the chat and native review channels run in
	// test mode and only log their deliveries.
	deps := &channelBuiltin.Dependencies{DeviceStore: deviceStore}
	if cfg.AppWebhookURL != "" {
		webhook := service.NewWebhookClient(service.WebhookClientConfig{BaseURL: cfg.AppWebhookURL})
		deps.MessagePoster = webhook
		deps.ReviewRequester = webhook
	} else {
		logrus.Warn("APP_WEBHOOK_URL not set, chat and native review channels run in test mode")
	}

	// ============================================================
	// Step 4: Bootstrap pipeline components
	// ============================================================
	gateEngine, gateRegistry, err := bootstrap.InitGateEngine(schedulerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to init gate engine: %w", err)
	}

	channelRegistry, err := bootstrap.InitChannelRegistry(schedulerConfig, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to init channel registry: %w", err)
	}

	manager := bootstrap.InitScheduler(stateStore, adoption, gateEngine, channelRegistry, telemetry, schedulerConfig)

	if err := scheduler.ValidateWiring(gateRegistry, channelRegistry, schedulerConfig); err != nil {
		return nil, fmt.Errorf("scheduler wiring validation failed: %w", err)
	}
	logrus.Info("scheduler wiring validation passed")

	// ============================================================
	// Step 5: Schedule the chat sweep
	// ============================================================
	if cfg.ChatSweepSchedule != "" {
		sweep := scheduler.NewSweep(stateStore, deviceStore, channelRegistry, cfg.ChatSweepChannel, cfg.ChatCooldownDays)
		app.sweepCron = cron.New()
		if _, err := app.sweepCron.AddFunc(cfg.ChatSweepSchedule, func() {
			if err := sweep.Run(context.Background()); err != nil {
				logrus.Errorf("chat sweep failed: %v", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("invalid CHAT_SWEEP_SCHEDULE %q: %w", cfg.ChatSweepSchedule, err)
		}
		logrus.Infof("chat sweep scheduled: %s", cfg.ChatSweepSchedule)
	} else {
		logrus.Info("chat sweep disabled")
	}

	// ============================================================
	// Step 6: Setup servers
	// ============================================================
	engagement := handler.NewEngagement(manager, stateStore, adoption)

	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, cfg.ServiceName, cfg.Environment, engagement, func(ctx context.Context) error {
		return app.redisClient.Ping(ctx).Err()
	})
	if err := app.httpServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup API server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// ============================================================
	// Step 7: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.OtelServiceName, cfg.Environment, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// initRedis initializes the Redis client.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisHost + ":" + a.cfg.RedisPort,
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	maxRetries := backoff.WithMaxRetries(b, uint64(a.cfg.RedisMaxRetries))

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}
