// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, recipe store, job dispatch, blob
// storage) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/cookbook/internal/config"
	"github.com/JaimeStill/cookbook/internal/dispatch"
	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/pkg/database"
	"github.com/JaimeStill/cookbook/pkg/lifecycle"
	"github.com/JaimeStill/cookbook/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil unless the postgres backend is selected, Storage is nil
// unless a connection string is configured, and Queue is nil unless a
// Redis address is configured.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Store      recipes.Store
	Dispatcher dispatch.Dispatcher
	Database   database.System
	Storage    storage.System
	Queue      *dispatch.Queue
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewWithLogger(cfg, logger)
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle:  lifecycle.New(),
		Logger:     logger,
		Dispatcher: dispatch.Noop{},
	}

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.New(
			&cfg.Database,
			logger,
			database.WithMigrations(recipes.Migrations, recipes.MigrationsDir),
		)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
		infra.Store = recipes.NewPostgres(db.Connection(), logger)
	case config.BackendSupabase:
		store, err := recipes.NewSupabase(cfg.Store.SupabaseURL, cfg.Store.SupabaseKey, logger)
		if err != nil {
			return nil, fmt.Errorf("supabase init failed: %w", err)
		}
		infra.Store = store
	default:
		infra.Store = recipes.NewMemoryStore()
	}

	if cfg.Storage.Enabled() {
		blobs, err := storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = blobs
	}

	if cfg.Dispatch.Enabled() {
		infra.Queue = dispatch.NewQueue(&cfg.Dispatch, logger)
		infra.Dispatcher = infra.Queue
	}

	logger.Info(
		"infrastructure initialized",
		"store", cfg.Store.Backend,
		"storage", cfg.Storage.Enabled(),
		"dispatch", cfg.Dispatch.Enabled(),
	)

	return infra, nil
}

// Start registers all configured systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	if i.Queue != nil {
		if err := i.Queue.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("dispatch start failed: %w", err)
		}
	}
	return nil
}

// Seed installs the built-in system recipes when the store has none.
func (i *Infrastructure) Seed(ctx context.Context) error {
	n, err := recipes.SeedSystem(ctx, i.Store, time.Now())
	if err != nil {
		return fmt.Errorf("seed system recipes: %w", err)
	}
	if n > 0 {
		i.Logger.Info("system recipes seeded", "count", n)
	}
	return nil
}
