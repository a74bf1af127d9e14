package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/runconnect/runconnect/pkg/config"
)

// Config holds all configuration for the RunConnect API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Backend (Xano) API groups
	AuthBaseURL string `env:"BACKEND_AUTH_BASE_URL" envDefault:"https://x8ki-letl-twmt.n7.xano.io/api:i1jsrZS3"`
	DataBaseURL string `env:"BACKEND_DATA_BASE_URL" envDefault:"https://x8ki-letl-twmt.n7.xano.io/api:ACAviQ44"`

	// Redis (sessions and verification tokens)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT session tokens
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`

	// Server-side session records
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Verification email delivery
	EmailEndpoint string `env:"EMAIL_ENDPOINT" envDefault:""`
	EmailAPIKey   string `env:"EMAIL_API_KEY" envDefault:""`

	// Base URL used to build verification links sent to users.
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000"`

	// Object storage for event images
	StorageBaseURL    string `env:"STORAGE_BASE_URL" envDefault:""`
	StorageBucket     string `env:"STORAGE_BUCKET" envDefault:"event-images"`
	StorageServiceKey string `env:"STORAGE_SERVICE_KEY" envDefault:""`

	// Geocoding
	GeocodeBaseURL   string `env:"GEOCODE_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocodeUserAgent string `env:"GEOCODE_USER_AGENT" envDefault:"runconnect-api/1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
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
