package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds the environment driven configuration for the API.
type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"dev"`
	AppVersion      string        `env:"APP_VERSION" envDefault:"dev"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	DatabaseURL       string        `env:"DATABASE_URL" envDefault:"giftfinder.db"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-me-jwt-secret"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	// TrustedProxies are IPs or CIDRs whose X-Forwarded-For is honoured.
	// Empty means the peer address is always the client IP.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Redis is optional; without it clicks are never flagged as duplicates
	// and stats are computed on every request.
	RedisURL          string        `env:"REDIS_URL"`
	ClickDedupeWindow time.Duration `env:"CLICK_DEDUPE_WINDOW" envDefault:"30s"`
	StatsCacheTTL     time.Duration `env:"STATS_CACHE_TTL" envDefault:"60s"`

	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTrackingTopic string   `env:"KAFKA_TRACKING_TOPIC" envDefault:"tracking-events"`

	MediaStorage       string `env:"MEDIA_STORAGE" envDefault:"local"`
	MediaLocalPath     string `env:"MEDIA_LOCAL_PATH" envDefault:"./uploads"`
	MediaPublicBaseURL string `env:"MEDIA_PUBLIC_BASE_URL" envDefault:"/static/media"`
	MediaMaxBytes      int64  `env:"MEDIA_MAX_BYTES" envDefault:"10485760"`

	S3Endpoint       string `env:"MEDIA_S3_ENDPOINT"`
	S3PublicEndpoint string `env:"MEDIA_S3_PUBLIC_ENDPOINT"`
	S3Region         string `env:"MEDIA_S3_REGION" envDefault:"us-east-1"`
	S3Bucket         string `env:"MEDIA_S3_BUCKET"`
	S3AccessKeyID    string `env:"MEDIA_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"MEDIA_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle   bool   `env:"MEDIA_S3_USE_PATH_STYLE" envDefault:"true"`
}

// Load parses environment variables into Config and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.MediaStorage = strings.ToLower(strings.TrimSpace(cfg.MediaStorage))
	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.S3PublicEndpoint = strings.TrimSpace(cfg.S3PublicEndpoint)
	cfg.KafkaBrokers = trimAll(cfg.KafkaBrokers)
	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)
	cfg.TrustedProxies = trimAll(cfg.TrustedProxies)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsProduction reports whether the app runs in a prod-like environment.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be in 1..65535")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.ClickDedupeWindow <= 0 {
		return fmt.Errorf("CLICK_DEDUPE_WINDOW must be > 0")
	}
	if cfg.StatsCacheTTL <= 0 {
		return fmt.Errorf("STATS_CACHE_TTL must be > 0")
	}
	if cfg.MediaMaxBytes <= 0 {
		return fmt.Errorf("MEDIA_MAX_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}

	for _, p := range cfg.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", p)
			}
		}
	}

	switch cfg.MediaStorage {
	case StorageLocal:
		if strings.TrimSpace(cfg.MediaLocalPath) == "" {
			return fmt.Errorf("MEDIA_LOCAL_PATH must not be empty for local storage")
		}
	case StorageS3:
		if cfg.S3Bucket == "" {
			return fmt.Errorf("MEDIA_S3_BUCKET is required when MEDIA_STORAGE=s3")
		}
	default:
		return fmt.Errorf("MEDIA_STORAGE must be one of: local, s3")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
