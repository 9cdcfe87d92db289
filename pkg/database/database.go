// Package database provides PostgreSQL connection management with lifecycle coordination.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/cookbook/pkg/lifecycle"
)

// System manages database connections and lifecycle coordination.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Ready reports whether the startup ping, and any configured migration,
	// has succeeded.
	Ready() bool
	// Check returns ErrNotReady until Ready is true.
	Check() error
}

// Option configures optional database behavior.
type Option func(*database)

// WithMigrations supplies the schema applied at startup when the config
// enables AutoMigrate.
func WithMigrations(source fs.FS, dir string) Option {
	return func(d *database) {
		d.migrations = source
		d.migrationsDir = dir
	}
}

type database struct {
	conn          *sql.DB
	logger        *slog.Logger
	connTimeout   time.Duration
	autoMigrate   bool
	migrations    fs.FS
	migrationsDir string
	ready         atomic.Bool
}

// New creates a database system with the given configuration.
// It calls sql.Open to validate the DSN and configure pool parameters,
// but does not establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger, opts ...Option) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	d := &database{
		conn:        db,
		logger:      logger.With("system", "database", "host", cfg.Host, "name", cfg.Name),
		connTimeout: cfg.ConnTimeoutDuration(),
		autoMigrate: cfg.AutoMigrate,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ready() bool {
	return d.ready.Load()
}

func (d *database) Check() error {
	if !d.ready.Load() {
		return ErrNotReady
	}
	return nil
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection", "auto_migrate", d.autoMigrate)
	lc.Check("database", d)

	lc.OnStartup(func() {
		if err := d.connect(lc.Context()); err != nil {
			d.logger.Error("database startup failed", "error", err)
			return
		}
		d.ready.Store(true)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.ready.Store(false)
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}

		d.logger.Info("database connection closed")
	})

	return nil
}

func (d *database) connect(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, d.connTimeout)
	defer cancel()

	if err := d.conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	d.logger.Info("database connection established")

	if !d.autoMigrate || d.migrations == nil {
		return nil
	}

	version, err := Migrate(ctx, d.conn, d.migrations, d.migrationsDir)
	if err != nil {
		return err
	}
	d.logger.Info("database schema migrated", "version", version)
	return nil
}
