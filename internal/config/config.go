// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; required by server, migrate, and seed.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// AccessTokenSecret is the server-held secret used to derive the token signing
	// and ledger hashing keys. Required by the server; must be at least 32 bytes.
	AccessTokenSecret string `mapstructure:"ACCESS_TOKEN_SECRET"`
	// TokenIssuer is the iss claim on issued access tokens.
	TokenIssuer string `mapstructure:"TOKEN_ISSUER"`
	// TokenTTL is the default access token lifetime (e.g. "90m"). The effective
	// TTL is clamped to the remaining join window at issuance.
	TokenTTL string `mapstructure:"TOKEN_TTL"`
	// JoinLeadTime is how long before scheduled start the join window opens (e.g. "30m").
	JoinLeadTime string `mapstructure:"JOIN_LEAD_TIME"`
	// JoinGracePeriod extends the join window past scheduled end (default "0s": hard cutoff).
	JoinGracePeriod string `mapstructure:"JOIN_GRACE_PERIOD"`
	// AbuseWindow is the trailing window for the denied-attempt heuristic (e.g. "60m").
	AbuseWindow string `mapstructure:"ABUSE_WINDOW"`
	// AbuseDenialThreshold is the denied-attempt count above which a user is flagged (default 10).
	AbuseDenialThreshold int `mapstructure:"ABUSE_DENIAL_THRESHOLD"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. http://localhost:4317).
	// Empty disables OTel export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// Telemetry (optional). When Kafka brokers are set, the server emits access events to Kafka.
	// TelemetryKafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	TelemetryKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// TelemetryKafkaTopic is the Kafka topic for access events (default lsg-access-events).
	TelemetryKafkaTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`

	// Worker-only: Loki URL for the telemetry worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the telemetry worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ACCESS_TOKEN_SECRET", "")
	v.SetDefault("TOKEN_ISSUER", "lsg-access")
	v.SetDefault("TOKEN_TTL", "90m")
	v.SetDefault("JOIN_LEAD_TIME", "30m")
	v.SetDefault("JOIN_GRACE_PERIOD", "0s")
	v.SetDefault("ABUSE_WINDOW", "60m")
	v.SetDefault("ABUSE_DENIAL_THRESHOLD", 10)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "lsg-access-events")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "lsg-telemetry-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.AbuseDenialThreshold <= 0 {
		return nil, errors.New("config: ABUSE_DENIAL_THRESHOLD must be positive")
	}

	return &cfg, nil
}

// TokenTTLDuration parses TokenTTL as a time.Duration. Returns 90m if unset or invalid.
func (c *Config) TokenTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil || d <= 0 {
		return 90 * time.Minute
	}
	return d
}

// JoinLead parses JoinLeadTime as a time.Duration. Returns 30m if unset or invalid.
func (c *Config) JoinLead() time.Duration {
	d, err := time.ParseDuration(c.JoinLeadTime)
	if err != nil || d < 0 {
		return 30 * time.Minute
	}
	return d
}

// JoinGrace parses JoinGracePeriod as a time.Duration. Returns 0 if unset or invalid.
func (c *Config) JoinGrace() time.Duration {
	d, err := time.ParseDuration(c.JoinGracePeriod)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// AbuseWindowDuration parses AbuseWindow as a time.Duration. Returns 60m if unset or invalid.
func (c *Config) AbuseWindowDuration() time.Duration {
	d, err := time.ParseDuration(c.AbuseWindow)
	if err != nil || d <= 0 {
		return 60 * time.Minute
	}
	return d
}

// TelemetryKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if telemetry is enabled (non-empty list) and to create the producer.
func (c *Config) TelemetryKafkaBrokersList() []string {
	if c == nil || c.TelemetryKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.TelemetryKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
