package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("BROKER_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "entomophage" || cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.BrokerURL != "amqp://localhost" || cfg.BrokerAutoAck {
		t.Fatalf("unexpected broker defaults %+v", cfg)
	}
	if cfg.SyncHandlerTimeout != 30*time.Second || cfg.SyncFanoutLimit != 16 {
		t.Fatalf("unexpected sync defaults %+v", cfg)
	}
	if cfg.EnablePublishReplay {
		t.Fatal("publish replay must be opt-in")
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("BROKER_URL", "memory://")
	t.Setenv("BROKER_AUTO_ACK", "true")
	t.Setenv("SYNC_HANDLER_TIMEOUT", "2s")
	t.Setenv("ENABLE_PUBLISH_REPLAY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.UsesMemoryBroker() || !cfg.BrokerAutoAck {
		t.Fatalf("unexpected broker config %+v", cfg)
	}
	if cfg.SyncHandlerTimeout != 2*time.Second || !cfg.EnablePublishReplay {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing dsn to fail")
	}
}

func TestNormalizeRejectsUnknownDriver(t *testing.T) {
	if _, err := (Config{StoreDriver: "mongo"}).Normalize(); err == nil {
		t.Fatal("expected unknown driver to fail")
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("HTTP_PORT", "9000")

	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	override := AddFlags(flagSet)
	if err := flagSet.Parse([]string{"--store-driver=memory", "--broker-url=memory://", "--sync-fanout-limit=4"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(override)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != StoreDriverMemory || !cfg.UsesMemoryBroker() || cfg.SyncFanoutLimit != 4 {
		t.Fatalf("flags not applied %+v", cfg)
	}
	if cfg.HTTPPort != "9000" {
		t.Fatalf("unset flag must keep env value, got %q", cfg.HTTPPort)
	}
}
