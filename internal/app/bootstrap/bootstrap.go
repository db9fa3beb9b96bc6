package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	assetvault "tokendist/contexts/distribution-core/asset-vault"
	claimsledger "tokendist/contexts/distribution-core/claims-ledger"
	postgresadapter "tokendist/contexts/distribution-core/claims-ledger/adapters/postgres"
	workerapp "tokendist/contexts/distribution-core/claims-ledger/application/workers"
	feeregistry "tokendist/contexts/finance-core/fee-registry"
	accesscontrol "tokendist/contexts/identity-access/access-control"
	"tokendist/internal/platform/config"
	"tokendist/internal/platform/db"
	"tokendist/internal/platform/httpserver"
	"tokendist/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	expiry       workerapp.ExpiryNotifier
	relayEnabled bool
	expiryOn     bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := seedFeeRate(repo, cfg.DefaultFeeBps); err != nil {
		return nil, err
	}

	// Custody transfers settle against an in-process bank until the external
	// settlement connector lands; the vault port keeps that swap local.
	vault := assetvault.NewInMemoryModule(logger)

	access := accesscontrol.NewModule(accesscontrol.Dependencies{
		Store:  repo,
		Clock:  postgresadapter.SystemClock{},
		Logger: logger,
	})

	ledger := claimsledger.NewModule(claimsledger.Dependencies{
		Repository: repo,
		Vault:      vault.Service,
		Rates:      repo,
		Clock:      postgresadapter.SystemClock{},
		IDGen:      postgresadapter.UUIDGenerator{},
		Logger:     logger,
	})

	fees := feeregistry.NewModule(feeregistry.Dependencies{
		Repository: repo,
		Payer:      vault.Service,
		Access:     access.Service,
		Clock:      postgresadapter.SystemClock{},
		Logger:     logger,
	})

	server := httpserver.New(ledger, fees, access, logger, normalizeAddr(cfg.HTTPPort), cfg.JWTSecret)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		expiry: workerapp.ExpiryNotifier{
			Repo:      repo,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		expiryOn:     cfg.EnableExpiryNotifier,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.expiryOn {
			if err := w.expiry.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func seedFeeRate(repo *postgresadapter.Repository, defaultBps int64) error {
	if defaultBps <= 0 {
		return nil
	}
	ctx := context.Background()
	current, err := repo.FeeRateBps(ctx)
	if err != nil {
		return err
	}
	if current != 0 {
		return nil
	}
	return repo.SaveFeeRateBps(ctx, defaultBps)
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
