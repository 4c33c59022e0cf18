package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/hirelane/jobportal/pkg/config"
)

// Config holds all configuration for the portal backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"jobportal"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"jobportal_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"jobportal_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Connection pool
	DBMaxConns int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns int32 `env:"DB_MIN_CONNS" envDefault:"5"`

	// Redis (idempotency-key store)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Session token
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	SessionExpiry  time.Duration `env:"SESSION_EXPIRY" envDefault:"24h"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"1m"`

	// Google OAuth. Empty disables the google-login and google-register
	// endpoints at startup.
	GoogleClientID string `env:"GOOGLE_CLIENT_ID" envDefault:""`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Pprof access, CIDR allowlist. Empty disables remote pprof.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.SessionExpiry <= 0 {
		return nil, fmt.Errorf("invalid session expiry: %s", cfg.SessionExpiry)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == "change-this-to-a-secure-secret" {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}

// IsProduction reports whether the service runs in production mode. The
// session cookie's Secure flag follows this.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
