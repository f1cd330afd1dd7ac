// Copyright (c) 2025 Webrex Studio. All Rights Reserved.
// This is licensed software from Webrex Studio, for limitations
// and restrictions contact your company contract manager.

package config

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"ReviewEngagementScheduler"`

	// ============================================================
	// Redis configuration
	// ============================================================
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// ============================================================
	// Scheduler configuration
	// ============================================================
	ConfigPath string `env:"CONFIG_PATH" envDefault:"config/scheduler.yaml"`

	// AppWebhookURL is the merchant-facing app's internal webhook endpoint
	// used for chat delivery and native review requests. Empty leaves those
	// channels in test mode.
	AppWebhookURL string `env:"APP_WEBHOOK_URL"`

	// ChatSweepSchedule is a cron expression for the chat nudge sweep.
	// Empty disables the sweep.
	ChatSweepSchedule string  `env:"CHAT_SWEEP_SCHEDULE" envDefault:"0 9 * * *"`
	ChatSweepChannel  string  `env:"CHAT_SWEEP_CHANNEL" envDefault:"chat_message"`
	ChatCooldownDays  float64 `env:"CHAT_COOLDOWN_DAYS" envDefault:"10"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	OtelServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"review-engagement"`
}
