// Package config builds runtime configuration from environment variables so
// main stays lean. Development defaults apply when a variable is unset.
package config

import (
	"os"
	"strings"
	"time"

	"propdesk/pkg/domain"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	Owner         domain.AccountID
}

// Redis captures optional Redis connection configuration. An empty URL means
// the in-memory cooldown store is used instead.
type Redis struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Postgres captures the optional durable stores. Empty DSNs disable them.
type Postgres struct {
	EventLogDSN     string
	TradeArchiveDSN string
}

// Kafka captures optional event streaming configuration. No brokers means
// events stay local.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Config is everything main needs to wire the platform.
type Config struct {
	Server   Server
	Redis    Redis
	Postgres Postgres
	Kafka    Kafka
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("PROPDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("PROPDESK_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	owner, err := domain.AccountIDFromHex(os.Getenv("PROPDESK_OWNER"))
	if err != nil {
		owner = domain.AccountIDFromUint64(1)
	}

	var brokers []string
	if raw := os.Getenv("PROPDESK_KAFKA_BROKERS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				brokers = append(brokers, part)
			}
		}
	}
	topic := os.Getenv("PROPDESK_KAFKA_TOPIC")
	if topic == "" {
		topic = "propdesk.events"
	}

	return Config{
		Server: Server{
			Addr:          addr,
			JWTSigningKey: jwtSigningKey,
			Owner:         owner,
		},
		Redis: Redis{
			URL:          os.Getenv("PROPDESK_REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: Postgres{
			EventLogDSN:     os.Getenv("PROPDESK_EVENTLOG_DSN"),
			TradeArchiveDSN: os.Getenv("PROPDESK_TRADE_ARCHIVE_DSN"),
		},
		Kafka: Kafka{
			Brokers: brokers,
			Topic:   topic,
		},
	}
}
