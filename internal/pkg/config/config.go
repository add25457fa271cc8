package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, upstream URL, secrets)
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	Marketplace MarketplaceConfig
	Booking     BookingConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

// MarketplaceConfig points at the backend that owns bookings.
type MarketplaceConfig struct {
	BaseURL string        `envconfig:"MARKETPLACE_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"MARKETPLACE_TIMEOUT" default:"10s"`
}

type BookingConfig struct {
	// Used when a stay snapshot has no (or an unknown) time zone.
	DefaultTimeZone string        `envconfig:"BOOKING_DEFAULT_TIMEZONE" default:"America/New_York"`
	QuoteTTL        time.Duration `envconfig:"BOOKING_QUOTE_TTL" default:"15m"`
}

// Empty Addr disables Redis; quotes are then kept in process memory.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Prefix   string `envconfig:"REDIS_PREFIX" default:"booking-lifecycle"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// Secret shared with the marketplace identity service; tokens are validated, never issued.
type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
	// Lifetime of tokens minted by local tooling and tests.
	TokenDuration time.Duration `envconfig:"JWT_TOKEN_DURATION" default:"1h"`
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Marketplace: MarketplaceConfig{
			BaseURL: "http://127.0.0.1:18080",
			Timeout: 2 * time.Second,
		},
		Booking: BookingConfig{
			DefaultTimeZone: "America/New_York",
			QuoteTTL:        15 * time.Minute,
		},
		Redis: RedisConfig{
			Prefix: "booking-lifecycle-test",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:        "test-secret",
			TokenDuration: time.Hour,
		},
	}
}
