package config

import "github.com/spf13/pflag"

// AddFlags registers command-line overrides on flagSet. The returned func
// copies only the flags that were set explicitly, so the environment stays
// authoritative for everything else. Pass it to Load after parsing.
func AddFlags(flagSet *pflag.FlagSet) func(*Config) {
	serviceName := flagSet.String("service-name", "", "service name used in logs and consumer tags (SERVICE_NAME)")
	httpPort := flagSet.String("http-port", "", "HTTP listen port (HTTP_PORT)")
	storeDriver := flagSet.String("store-driver", "", "postgres or memory (STORE_DRIVER)")
	postgresDSN := flagSet.String("postgres-dsn", "", "postgres connection string (POSTGRES_DSN)")
	brokerURL := flagSet.String("broker-url", "", "amqp:// URL, or memory:// for the in-process broker (BROKER_URL)")
	autoAck := flagSet.Bool("broker-auto-ack", false, "acknowledge deliveries on receipt (BROKER_AUTO_ACK)")
	handlerTimeout := flagSet.Duration("sync-handler-timeout", 0, "deadline for one inbound envelope (SYNC_HANDLER_TIMEOUT)")
	fanoutLimit := flagSet.Int("sync-fanout-limit", 0, "concurrent per-entity writes while reconciling (SYNC_FANOUT_LIMIT)")
	replay := flagSet.Bool("enable-publish-replay", false, "park failed publishes and retry them (ENABLE_PUBLISH_REPLAY)")
	replayInterval := flagSet.Duration("publish-replay-interval", 0, "delay between replay passes (PUBLISH_REPLAY_INTERVAL)")

	return func(c *Config) {
		if flagSet.Changed("service-name") {
			c.ServiceName = *serviceName
		}
		if flagSet.Changed("http-port") {
			c.HTTPPort = *httpPort
		}
		if flagSet.Changed("store-driver") {
			c.StoreDriver = *storeDriver
		}
		if flagSet.Changed("postgres-dsn") {
			c.PostgresDSN = *postgresDSN
		}
		if flagSet.Changed("broker-url") {
			c.BrokerURL = *brokerURL
		}
		if flagSet.Changed("broker-auto-ack") {
			c.BrokerAutoAck = *autoAck
		}
		if flagSet.Changed("sync-handler-timeout") {
			c.SyncHandlerTimeout = *handlerTimeout
		}
		if flagSet.Changed("sync-fanout-limit") {
			c.SyncFanoutLimit = *fanoutLimit
		}
		if flagSet.Changed("enable-publish-replay") {
			c.EnablePublishReplay = *replay
		}
		if flagSet.Changed("publish-replay-interval") {
			c.PublishReplayInterval = *replayInterval
		}
	}
}
