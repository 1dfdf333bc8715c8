package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"costwatch/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	API           APIConfig
	Telegram      TelegramConfig
	Analytics     AnalyticsConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"costwatch"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type PostgresConfig struct {
	Host          string `envconfig:"POSTGRES_HOST" required:"true"`
	Port          int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User          string `envconfig:"POSTGRES_USER" required:"true"`
	Password      string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database      string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode       string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns      int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
	MigrationsDir string `envconfig:"POSTGRES_MIGRATIONS_DIR" default:"migrations"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// MigrateURL builds the URL form of the DSN used by golang-migrate.
func (c PostgresConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" required:"true"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type APIConfig struct {
	Host            string        `envconfig:"API_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"15s"`
	RateLimitRPS    float64       `envconfig:"API_RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst  int           `envconfig:"API_RATE_LIMIT_BURST" default:"40"`
}

func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type TelegramConfig struct {
	BotToken string  `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatIDs  []int64 `envconfig:"TELEGRAM_REPORT_CHAT_IDS"`
}

// Enabled reports whether daily report delivery is configured.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && len(c.ChatIDs) > 0
}

type AnalyticsConfig struct {
	// DefaultWindowDays is the fallback window when callers omit date bounds
	DefaultWindowDays int `envconfig:"ANALYTICS_DEFAULT_WINDOW_DAYS" default:"30"`

	// SnapshotTTL bounds staleness of the cached simple summary
	SnapshotTTL time.Duration `envconfig:"ANALYTICS_SNAPSHOT_TTL" default:"10m"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for the background workers
type WorkerConfig struct {
	SnapshotRefreshInterval time.Duration `envconfig:"WORKER_SNAPSHOT_REFRESH_INTERVAL" default:"5m"`
	SnapshotRefreshEnabled  bool          `envconfig:"WORKER_SNAPSHOT_REFRESH_ENABLED" default:"true"`

	DailyReportInterval time.Duration `envconfig:"WORKER_DAILY_REPORT_INTERVAL" default:"24h"`
	DailyReportEnabled  bool          `envconfig:"WORKER_DAILY_REPORT_ENABLED" default:"true"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
