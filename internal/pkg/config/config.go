package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (timezone, TTLs, pricing rules)
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
	Idempotency IdempotencyConfig
	Inventory   InventoryConfig
	Pricing     PricingConfig
	Redis       RedisConfig
	Stripe      StripeConfig
	Telemetry   TelemetryConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer   string        `envconfig:"JWT_ISSUER" default:"checkout-core"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"1h"`
}

type IdempotencyConfig struct {
	TTL           time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"15m"`
	SweepInterval time.Duration `envconfig:"IDEMPOTENCY_SWEEP_INTERVAL" default:"10m"`
}

type InventoryConfig struct {
	ReservationTTL time.Duration `envconfig:"INVENTORY_RESERVATION_TTL" default:"20m"`
}

// Amounts are decimal strings so they never pass through float64.
type PricingConfig struct {
	Currency              string `envconfig:"PRICING_CURRENCY" default:"SEK"`
	FlatShipping          string `envconfig:"PRICING_FLAT_SHIPPING" default:"49.00"`
	FreeShippingThreshold string `envconfig:"PRICING_FREE_SHIPPING_THRESHOLD" default:"500.00"`
	DiscountPercent       string `envconfig:"PRICING_DISCOUNT_PERCENT" default:"0"`
	VATRate               string `envconfig:"PRICING_VAT_RATE" default:"0.25"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Stream   string `envconfig:"REDIS_EVENT_STREAM" default:"checkout.events"`
	MaxLen   int64  `envconfig:"REDIS_EVENT_STREAM_MAXLEN" default:"100000"`
}

type StripeConfig struct {
	SecretKey string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
}

type TelemetryConfig struct {
	ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"checkout-core"`
	Enabled      bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
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
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Issuer:   "checkout-core",
			Duration: time.Hour,
		},
		Idempotency: IdempotencyConfig{
			TTL:           15 * time.Minute,
			SweepInterval: time.Minute,
		},
		Inventory: InventoryConfig{
			ReservationTTL: 20 * time.Minute,
		},
		Pricing: PricingConfig{
			Currency:              "SEK",
			FlatShipping:          "49.00",
			FreeShippingThreshold: "500.00",
			DiscountPercent:       "0",
			VATRate:               "0.25",
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Stream: "checkout.events.test",
			MaxLen: 1000,
		},
		Stripe: StripeConfig{
			SecretKey: "sk_test_dummy",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "checkout-core-test",
		},
	}
}
