package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	userservice "entomophage/contexts/identity-access/user-service"
	identityevents "entomophage/contexts/identity-access/user-service/adapters/events"
	identitypostgres "entomophage/contexts/identity-access/user-service/adapters/postgres"
	projectservice "entomophage/contexts/issue-tracking/project-service"
	issueevents "entomophage/contexts/issue-tracking/project-service/adapters/events"
	issuepostgres "entomophage/contexts/issue-tracking/project-service/adapters/postgres"
	syncv1 "entomophage/contracts/sync/v1"
	"entomophage/internal/platform/config"
	"entomophage/internal/platform/db"
	"entomophage/internal/platform/httpserver"
	"entomophage/internal/platform/messaging"
	"entomophage/internal/shared/outbox"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const moduleName = "internal/app/bootstrap"

// App is one service process: HTTP surface, sync dispatcher and the optional
// publish replay worker.
type App struct {
	Party      syncv1.Party
	Server     *httpserver.Server
	Dispatcher messaging.Dispatcher
	Replayer   *messaging.Replayer
	Identity   *userservice.Module
	Issues     *projectservice.Module

	transport     messaging.Transport
	ownsTransport bool
	postgres      *db.Postgres
	logger        *slog.Logger
}

// BuildIdentity wires the identity service. A nil transport is resolved
// from cfg.BrokerURL; a supplied one is shared and not closed by the App.
func BuildIdentity(ctx context.Context, cfg config.Config, transport messaging.Transport) (*App, error) {
	app, err := newApp(ctx, cfg, syncv1.PartyIdentity, transport)
	if err != nil {
		return nil, err
	}

	publisher := identityevents.NewPublisher(app.publisher(cfg), app.logger)
	var module userservice.Module
	if app.postgres != nil {
		if err := app.postgres.Migrate(ctx, identitypostgres.Models()...); err != nil {
			_ = app.Close()
			return nil, err
		}
		repo := identitypostgres.NewRepository(app.postgres.DB, app.logger)
		module = userservice.NewModule(userservice.Dependencies{
			Users:       repo,
			Teams:       repo,
			Publisher:   publisher,
			Clock:       identitypostgres.SystemClock{},
			FanoutLimit: cfg.SyncFanoutLimit,
			Logger:      app.logger,
		})
	} else {
		module = userservice.NewInMemoryModule(publisher, app.logger)
		module.Sync.FanoutLimit = cfg.SyncFanoutLimit
		module.Handler.RenameTeam.FanoutLimit = cfg.SyncFanoutLimit
		module.Handler.DeleteTeam.FanoutLimit = cfg.SyncFanoutLimit
	}

	app.Identity = &module
	app.Dispatcher.Handlers = module.Sync.Handlers()
	app.Server = httpserver.New(&module, nil, app.logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

// BuildIssues wires the issue service. See BuildIdentity for transport rules.
func BuildIssues(ctx context.Context, cfg config.Config, transport messaging.Transport) (*App, error) {
	app, err := newApp(ctx, cfg, syncv1.PartyIssues, transport)
	if err != nil {
		return nil, err
	}

	publisher := issueevents.NewPublisher(app.publisher(cfg), app.logger)
	var module projectservice.Module
	if app.postgres != nil {
		if err := app.postgres.Migrate(ctx, issuepostgres.Models()...); err != nil {
			_ = app.Close()
			return nil, err
		}
		repo := issuepostgres.NewRepository(app.postgres.DB, app.logger)
		module = projectservice.NewModule(projectservice.Dependencies{
			Projects:    repo,
			Publisher:   publisher,
			Clock:       issuepostgres.SystemClock{},
			FanoutLimit: cfg.SyncFanoutLimit,
			Logger:      app.logger,
		})
	} else {
		module = projectservice.NewInMemoryModule(publisher, app.logger)
		module.Sync.FanoutLimit = cfg.SyncFanoutLimit
	}

	app.Issues = &module
	app.Dispatcher.Handlers = module.Sync.Handlers()
	app.Server = httpserver.New(nil, &module, app.logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

func newApp(ctx context.Context, cfg config.Config, party syncv1.Party, transport messaging.Transport) (*App, error) {
	logger := slog.Default().With("service", cfg.ServiceName, "party", party.String())
	app := &App{Party: party, logger: logger}

	if cfg.StoreDriver == config.StoreDriverPostgres {
		pg, err := db.Connect(ctx, cfg.PostgresDSN, db.PoolForFanout(cfg.SyncFanoutLimit))
		if err != nil {
			return nil, err
		}
		app.postgres = pg
	}

	if transport == nil {
		resolved, err := dialTransport(ctx, cfg, logger)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		transport = resolved
		app.ownsTransport = true
	}
	app.transport = transport

	for _, queue := range []string{party.InboundQueue(), party.Peer().InboundQueue()} {
		if err := transport.Open(queue); err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	app.Dispatcher = messaging.Dispatcher{
		Consumer:       transport,
		Self:           party,
		Prefetch:       1,
		AutoAck:        cfg.BrokerAutoAck,
		HandlerTimeout: cfg.SyncHandlerTimeout,
		Tag:            cfg.ServiceName + "-" + party.InboundQueue(),
		Logger:         logger,
	}
	return app, nil
}

func dialTransport(ctx context.Context, cfg config.Config, logger *slog.Logger) (messaging.Transport, error) {
	if cfg.UsesMemoryBroker() {
		logger.Warn("in-process broker selected; envelopes do not leave this process",
			"event", "bootstrap_memory_broker_selected",
			"module", moduleName,
			"layer", "platform",
		)
		return messaging.NewMemory(logger), nil
	}
	return messaging.Dial(ctx, cfg.BrokerURL, logger)
}

// publisher builds the envelope sender and, when replay is enabled, the
// outbox it parks failed sends in.
func (a *App) publisher(cfg config.Config) messaging.Publisher {
	publisher := messaging.Publisher{
		Transport: a.transport,
		Party:     a.Party,
		IDs:       messaging.UUIDGenerator{},
		Clock:     messaging.SystemClock{},
		Timeout:   cfg.SyncPublishTimeout,
		Logger:    a.logger,
	}
	if !cfg.EnablePublishReplay {
		return publisher
	}

	var store outbox.Store
	if a.postgres != nil {
		gormStore := outbox.NewGormStore(a.postgres.DB)
		if err := gormStore.Migrate(context.Background()); err != nil {
			a.logger.Error("sync outbox migration failed; replay disabled",
				"event", "bootstrap_outbox_migrate_failed",
				"module", moduleName,
				"layer", "platform",
				"error", err.Error(),
			)
			return publisher
		}
		store = gormStore
	} else {
		store = outbox.NewMemoryStore()
	}

	publisher.Outbox = store
	a.Replayer = &messaging.Replayer{
		Outbox:      store,
		Transport:   a.transport,
		Clock:       messaging.SystemClock{},
		BatchSize:   100,
		MaxAttempts: cfg.PublishReplayMaxAttempts,
		Interval:    cfg.PublishReplayInterval,
		Logger:      a.logger,
	}
	return publisher
}

// Run serves HTTP, consumes the inbound queue and replays parked envelopes
// until ctx ends or one of them fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("service app started",
		"event", "bootstrap_app_started",
		"module", moduleName,
		"layer", "platform",
		"replay_enabled", a.Replayer != nil,
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.Server.Run(groupCtx)
	})
	group.Go(func() error {
		return a.Dispatcher.Run(groupCtx)
	})
	if a.Replayer != nil {
		group.Go(func() error {
			return a.Replayer.Run(groupCtx)
		})
	}
	return group.Wait()
}

func (a *App) Close() error {
	var firstErr error
	if a.ownsTransport && a.transport != nil {
		if err := a.transport.Close(); err != nil {
			firstErr = err
		}
	}
	if a.postgres != nil {
		if err := a.postgres.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
