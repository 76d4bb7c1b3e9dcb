package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Security   SecurityConfig   `mapstructure:"security"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Dashboard  DashboardConfig  `mapstructure:"dashboard"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// PublicOrigin is used to build checkout redirect URLs when the
	// request carries no Origin header.
	PublicOrigin string `mapstructure:"public_origin"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StripeConfig holds payment provider configuration.
type StripeConfig struct {
	SecretKey          string `mapstructure:"secret_key"`
	WebhookSecret      string `mapstructure:"webhook_secret"`
	Currency           string `mapstructure:"currency"`
	ProductName        string `mapstructure:"product_name"`
	ProductDescription string `mapstructure:"product_description"`

	// Circuit breaker around outbound checkout calls.
	BreakerFailureThreshold uint32        `mapstructure:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `mapstructure:"breaker_timeout"`

	// CheckoutIdempotencyTTL is how long a checkout response is replayed
	// for a repeated Idempotency-Key. Requires Redis.
	CheckoutIdempotencyTTL time.Duration `mapstructure:"checkout_idempotency_ttl"`
}

// HTTPClientConfig holds the outbound HTTP client pool settings.
type HTTPClientConfig struct {
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`

	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout time.Duration `mapstructure:"tls_handshake_timeout"`
	ResponseTimeout     time.Duration `mapstructure:"response_timeout"`
	KeepAlive           time.Duration `mapstructure:"keep_alive"`
}

// AuthConfig holds admin authentication configuration.
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_token_expiry"`
	LoginMaxAttempts  int           `mapstructure:"login_max_attempts"`
	LoginWindow       time.Duration `mapstructure:"login_window"`
	BootstrapEmail    string        `mapstructure:"bootstrap_email"`
	BootstrapPassword string        `mapstructure:"bootstrap_password"`
}

// SecurityConfig holds encryption-at-rest configuration.
type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"`
}

// RateLimitConfig holds per-endpoint limits for public write routes.
type RateLimitConfig struct {
	CheckoutRequests int           `mapstructure:"checkout_requests"`
	CheckoutWindow   time.Duration `mapstructure:"checkout_window"`
	GuestRequests    int           `mapstructure:"guest_requests"`
	GuestWindow      time.Duration `mapstructure:"guest_window"`
}

// DashboardConfig holds couple dashboard configuration.
type DashboardConfig struct {
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	Timezone    string        `mapstructure:"timezone"`
	TopGifts    int           `mapstructure:"top_gifts"`
	RecentLimit int           `mapstructure:"recent_limit"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds Prometheus configuration.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/giftregistry")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("REGISTRY")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applySecretOverrides(&cfg)

	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Security.EncryptionKey == "" {
		return errors.New("security.encryption_key is required")
	}
	if c.Dashboard.Timezone != "" {
		if _, err := time.LoadLocation(c.Dashboard.Timezone); err != nil {
			return fmt.Errorf("dashboard.timezone: %w", err)
		}
	}
	return nil
}

// applySecretOverrides reads sensitive values from the environment.
func applySecretOverrides(cfg *Config) {
	if key := os.Getenv("REGISTRY_STRIPE_SECRET_KEY"); key != "" {
		cfg.Stripe.SecretKey = key
	}
	if secret := os.Getenv("REGISTRY_STRIPE_WEBHOOK_SECRET"); secret != "" {
		cfg.Stripe.WebhookSecret = secret
	}
	if password := os.Getenv("REGISTRY_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("REGISTRY_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if secret := os.Getenv("REGISTRY_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if key := os.Getenv("REGISTRY_ENCRYPTION_KEY"); key != "" {
		cfg.Security.EncryptionKey = key
	}
	if password := os.Getenv("REGISTRY_ADMIN_PASSWORD"); password != "" {
		cfg.Auth.BootstrapPassword = password
	}
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.public_origin", "http://localhost:3000")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "giftregistry")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)

	// Redis defaults
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)

	// Stripe defaults
	v.SetDefault("stripe.currency", "brl")
	v.SetDefault("stripe.product_name", "Wedding Gift Contribution")
	v.SetDefault("stripe.product_description", "Contribute to the wedding gift registry")
	v.SetDefault("stripe.breaker_failure_threshold", 5)
	v.SetDefault("stripe.breaker_timeout", 30*time.Second)
	v.SetDefault("stripe.checkout_idempotency_ttl", time.Hour)

	// Outbound HTTP client defaults
	v.SetDefault("http_client.max_idle_conns", 20)
	v.SetDefault("http_client.max_idle_conns_per_host", 10)
	v.SetDefault("http_client.idle_conn_timeout", 90*time.Second)
	v.SetDefault("http_client.dial_timeout", 5*time.Second)
	v.SetDefault("http_client.tls_handshake_timeout", 10*time.Second)
	v.SetDefault("http_client.response_timeout", 30*time.Second)
	v.SetDefault("http_client.keep_alive", 30*time.Second)

	// Auth defaults
	v.SetDefault("auth.access_token_expiry", 12*time.Hour)
	v.SetDefault("auth.login_max_attempts", 5)
	v.SetDefault("auth.login_window", 15*time.Minute)

	// Rate limit defaults
	v.SetDefault("rate_limit.checkout_requests", 10)
	v.SetDefault("rate_limit.checkout_window", time.Minute)
	v.SetDefault("rate_limit.guest_requests", 20)
	v.SetDefault("rate_limit.guest_window", time.Minute)

	// Dashboard defaults
	v.SetDefault("dashboard.cache_ttl", 30*time.Second)
	v.SetDefault("dashboard.timezone", "America/Sao_Paulo")
	v.SetDefault("dashboard.top_gifts", 5)
	v.SetDefault("dashboard.recent_limit", 10)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "giftregistry")
}
