package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Postgres Postgres `validate:"required"`

	Cache Cache `validate:"required"`

	Kafka Kafka `validate:"required"`

	Payment Payment `validate:"required"`

	Delivery Delivery `validate:"required"`
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MigrationsPath string `validate:"required"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type Cache struct {
	Capacity int           `validate:"gte=1"`
	TTL      time.Duration `validate:"gt=0"`
}

type Kafka struct {
	Brokers      []string      `validate:"required,min=1,dive,hostname_port"`
	OrdersTopic  string        `validate:"required"`
	BatchTimeout time.Duration `validate:"gte=0"`
}

type Payment struct {
	BaseURL    string        `validate:"required,url"`
	ShopID     string        `validate:"required"`
	SecretKey  string        `validate:"required"`
	Timeout    time.Duration `validate:"gt=0"`
	SuccessURL string        `validate:"required,url"`
	FailURL    string        `validate:"required,url"`
}

type Delivery struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "checkout"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MigrationsPath: env("POSTGRES_MIGRATIONS_PATH", "migrations"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Cache: Cache{
			Capacity: envInt("PROMO_CACHE_CAPACITY", 256),
			TTL:      envDuration("PROMO_CACHE_TTL", 30*time.Second),
		},

		Kafka: Kafka{
			Brokers:      strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),
			OrdersTopic:  env("KAFKA_ORDERS_TOPIC", "orders.created"),
			BatchTimeout: envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		Payment: Payment{
			BaseURL:    env("PAYMENT_BASE_URL", "https://checkout.bepaid.by"),
			ShopID:     env("PAYMENT_SHOP_ID", ""),
			SecretKey:  env("PAYMENT_SECRET_KEY", ""),
			Timeout:    envDuration("PAYMENT_TIMEOUT", 10*time.Second),
			SuccessURL: env("PAYMENT_SUCCESS_URL", "http://localhost:3000/order/success"),
			FailURL:    env("PAYMENT_FAIL_URL", "http://localhost:3000/order/fail"),
		},

		Delivery: Delivery{
			BaseURL: env("DELIVERY_BASE_URL", "http://localhost:8090"),
			Timeout: envDuration("DELIVERY_TIMEOUT", 5*time.Second),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if len(fallback) == 0 {
		return ""
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
