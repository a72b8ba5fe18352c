package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string
	AutoMigrate  bool // apply pending migrations at startup; cmd/migrate otherwise

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Rate limit for auth endpoints, requests per window per IP
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Goals
	DefaultCurrency        string
	ContributionMaxRetries int

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Messaging (optional, goal events are only published when set)
	AMQPURL      string
	AMQPExchange string

	// Observability (optional)
	SentryDSN string

	// Receipt storage (optional, S3-compatible; receipts are disabled without a bucket)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Fintrack"),
		AppEnv:  envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/fintrack.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite"),
		AutoMigrate:  envBool("DB_AUTO_MIGRATE", true),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: envDuration("AUTH_RATE_WINDOW", time.Minute),

		// Goals
		DefaultCurrency:        envString("DEFAULT_CURRENCY", "USD"),
		ContributionMaxRetries: envInt("CONTRIBUTION_MAX_RETRIES", 3),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Messaging
		AMQPURL:      envString("AMQP_URL", ""),
		AMQPExchange: envString("AMQP_EXCHANGE", "fintrack.goals"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""), // MinIO, R2, Spaces
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires a JWT_SECRET of at least 32 characters")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) ReceiptsEnabled() bool {
	return c.S3Bucket != ""
}

func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

// Sanitized returns a copy of the config without secrets or credentials,
// safe for logging at startup.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:                c.AppName,
		AppEnv:                 c.AppEnv,
		AppURL:                 c.AppURL,
		Port:                   c.Port,
		DBDriver:               c.DBDriver,
		AutoMigrate:            c.AutoMigrate,
		JWTExpiry:              c.JWTExpiry,
		AuthRateLimit:          c.AuthRateLimit,
		AuthRateWindow:         c.AuthRateWindow,
		DefaultCurrency:        c.DefaultCurrency,
		ContributionMaxRetries: c.ContributionMaxRetries,
		EmailFrom:              c.EmailFrom,
		AMQPExchange:           c.AMQPExchange,
		S3Region:               c.S3Region,
		S3Bucket:               c.S3Bucket,
		S3Endpoint:             c.S3Endpoint,
		S3PresignExpiry:        c.S3PresignExpiry,
	}
}
