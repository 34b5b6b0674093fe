package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/adapters/advisor"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/application/advisory"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/cart"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/catalog"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/config"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/storage"
)

// App is the wired storefront: one cart, its advisory bridge and the HTTP
// server in front of them.
type App struct {
	SessionID string
	Carts     *cart.Store
	Bridge    *advisory.Bridge
	Server    *api.Server
	Repo      storage.Repository

	transport io.Closer
	logger    *slog.Logger
}

// NewApp builds the object graph from cfg. The bridge worker is not started;
// call Start.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	repo, err := openRepository(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}

	publisher, transport, err := advisor.NewPublisher(cfg.Advisory)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("advisory transport: %w", err)
	}

	sessionID := uuid.NewString()
	cat := catalog.Default()
	registry := coupon.DefaultRegistry()
	evaluator := coupon.NewEvaluator(registry)

	carts := cart.NewStore(cat, evaluator, logger.With("system", "cart"))
	bridge := advisory.NewBridge(advisory.Config{
		SessionID:     sessionID,
		QueueSize:     cfg.Advisory.QueueSize,
		Timeout:       cfg.Advisory.Timeout,
		LocalFallback: cfg.Advisory.LocalFallback,
	}, publisher, evaluator, carts, repo, logger.With("system", "advisory"))
	carts.OnChange(bridge.OnCartChange)

	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		InboundSecret:  cfg.Advisory.InboundSecret,
		SessionID:      sessionID,
	}, api.Deps{
		Catalog: cat,
		Coupons: registry,
		Carts:   carts,
		Advisor: bridge,
		Calls:   repo,
	}, logger.With("system", "api"))

	return &App{
		SessionID: sessionID,
		Carts:     carts,
		Bridge:    bridge,
		Server:    server,
		Repo:      repo,
		transport: transport,
		logger:    logger,
	}, nil
}

// Start runs the bridge worker.
func (a *App) Start() {
	a.Bridge.Start()
}

// Close drains the bridge and releases the transport and the call log.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Bridge.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close bridge: %w", err))
	}
	if err := a.transport.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close transport: %w", err))
	}
	if err := a.Repo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}

// openRepository opens the SQLite call log, or an in-memory one for an empty
// path.
func openRepository(path string) (storage.Repository, error) {
	if path == "" {
		return storage.NewMemoryRepository(), nil
	}
	store, err := storage.NewStorage(path)
	if err != nil {
		return nil, fmt.Errorf("open call log: %w", err)
	}
	return store, nil
}
