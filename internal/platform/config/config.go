package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	// MemoryBrokerURL selects the in-process transport.
	MemoryBrokerURL = "memory://"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	BrokerURL     string `env:"BROKER_URL" envDefault:"amqp://localhost"`
	BrokerAutoAck bool   `env:"BROKER_AUTO_ACK" envDefault:"false"`

	SyncHandlerTimeout time.Duration `env:"SYNC_HANDLER_TIMEOUT" envDefault:"30s"`
	SyncPublishTimeout time.Duration `env:"SYNC_PUBLISH_TIMEOUT" envDefault:"5s"`
	SyncFanoutLimit    int           `env:"SYNC_FANOUT_LIMIT" envDefault:"16"`

	EnablePublishReplay      bool          `env:"ENABLE_PUBLISH_REPLAY" envDefault:"false"`
	PublishReplayInterval    time.Duration `env:"PUBLISH_REPLAY_INTERVAL" envDefault:"10s"`
	PublishReplayMaxAttempts int           `env:"PUBLISH_REPLAY_MAX_ATTEMPTS" envDefault:"5"`
}

// Load reads the environment, applies overrides in order and normalizes.
func Load(overrides ...func(*Config)) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	for _, override := range overrides {
		override(&cfg)
	}
	return cfg.Normalize()
}

// Normalize fills defaults for zero values and rejects unusable settings.
// Load calls it after applying overrides.
func (c Config) Normalize() (Config, error) {
	c.ServiceName = strings.TrimSpace(c.ServiceName)
	if c.ServiceName == "" {
		c.ServiceName = "entomophage"
	}
	c.HTTPPort = strings.TrimSpace(c.HTTPPort)
	if c.HTTPPort == "" {
		c.HTTPPort = "8080"
	}
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.StoreDriver == "" {
		c.StoreDriver = StoreDriverPostgres
	}
	c.BrokerURL = strings.TrimSpace(c.BrokerURL)
	if c.BrokerURL == "" {
		c.BrokerURL = "amqp://localhost"
	}
	if c.SyncHandlerTimeout <= 0 {
		c.SyncHandlerTimeout = 30 * time.Second
	}
	if c.SyncPublishTimeout <= 0 {
		c.SyncPublishTimeout = 5 * time.Second
	}
	if c.SyncFanoutLimit <= 0 {
		c.SyncFanoutLimit = 16
	}
	if c.PublishReplayInterval <= 0 {
		c.PublishReplayInterval = 10 * time.Second
	}
	if c.PublishReplayMaxAttempts <= 0 {
		c.PublishReplayMaxAttempts = 5
	}

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.PostgresDSN == "" {
			return Config{}, fmt.Errorf("POSTGRES_DSN is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	return c, nil
}

// UsesMemoryBroker reports whether the in-process transport is selected.
func (c Config) UsesMemoryBroker() bool {
	return strings.HasPrefix(c.BrokerURL, MemoryBrokerURL)
}
