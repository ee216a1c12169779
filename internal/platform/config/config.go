// Package config loads application configuration from the environment and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Config holds application configuration. Empty backing-service URLs select
// in-process fallbacks: memory stores, sequence ids and log-only broadcast.
type Config struct {
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// DefaultCurrency applies to money amounts submitted without a currency code.
	DefaultCurrency string `mapstructure:"DEFAULT_CURRENCY"`
	// TxTimeout bounds one load-mutate-save unit of work.
	TxTimeout time.Duration `mapstructure:"TX_TIMEOUT"`
	// BusinessTimezone names the IANA zone whose calendar decides birthdays.
	BusinessTimezone string `mapstructure:"BUSINESS_TIMEZONE"`

	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`

	RedisURL          string `mapstructure:"REDIS_URL"`
	RedisPoolSize     int    `mapstructure:"REDIS_POOL_SIZE"`
	RedisMinIdleConns int    `mapstructure:"REDIS_MIN_IDLE_CONNS"`

	// KafkaBrokers is a comma separated list; empty disables Kafka broadcast.
	KafkaBrokers     string `mapstructure:"KAFKA_BROKERS"`
	KafkaEventsTopic string `mapstructure:"KAFKA_EVENTS_TOPIC"`
	KafkaAcks        string `mapstructure:"KAFKA_ACKS"`
	// KafkaBreakerFailures consecutive delivery failures stop Kafka broadcast
	// until a trial call succeeds; trial calls run every KafkaBreakerCooldown.
	KafkaBreakerFailures int           `mapstructure:"KAFKA_BREAKER_FAILURES"`
	KafkaBreakerCooldown time.Duration `mapstructure:"KAFKA_BREAKER_COOLDOWN"`

	// TracingEnabled installs an OpenTelemetry SDK provider that writes spans to stdout.
	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// DatabaseConfig is the connection pool section of Config.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is the Redis section of Config.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads .env (if present), then builds and validates Config from the environment.
// Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEFAULT_CURRENCY", "TWD")
	v.SetDefault("TX_TIMEOUT", "5s")
	v.SetDefault("BUSINESS_TIMEZONE", "Asia/Taipei")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_EVENTS_TOPIC", "policyhub.domain-events")
	v.SetDefault("KAFKA_ACKS", "all")
	v.SetDefault("KAFKA_BREAKER_FAILURES", 5)
	v.SetDefault("KAFKA_BREAKER_COOLDOWN", "30s")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
}

func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return errors.New("config: HTTP_ADDR must be set")
	}
	if len(c.DefaultCurrency) != 3 || strings.ToUpper(c.DefaultCurrency) != c.DefaultCurrency {
		return errors.New("config: DEFAULT_CURRENCY must be a 3 letter upper-case ISO code")
	}
	if c.TxTimeout <= 0 {
		return errors.New("config: TX_TIMEOUT must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.KafkaBrokers != "" && c.KafkaEventsTopic == "" {
		return errors.New("config: KAFKA_EVENTS_TOPIC must be set when KAFKA_BROKERS is set")
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return errors.New("config: TRACING_SAMPLE_RATIO must be between 0 and 1")
	}
	return nil
}

// Location resolves BusinessTimezone. An empty setting means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.BusinessTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("config: BUSINESS_TIMEZONE %q: %w", c.BusinessTimezone, err)
	}
	return loc, nil
}

func (c *Config) Database() DatabaseConfig {
	return DatabaseConfig{
		URL:             c.DatabaseURL,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}

func (c *Config) Redis() RedisConfig {
	return RedisConfig{
		URL:          c.RedisURL,
		PoolSize:     c.RedisPoolSize,
		MinIdleConns: c.RedisMinIdleConns,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// KafkaBrokerList returns broker addresses from the comma separated setting.
func (c *Config) KafkaBrokerList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
