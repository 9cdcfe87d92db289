package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/cookbook/internal/dispatch"
	"github.com/JaimeStill/cookbook/pkg/database"
	"github.com/JaimeStill/cookbook/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvCookbookEnv             = "COOKBOOK_ENV"
	EnvCookbookShutdownTimeout = "COOKBOOK_SHUTDOWN_TIMEOUT"
	EnvCookbookVersion         = "COOKBOOK_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "COOKBOOK_DB_HOST",
	Port:            "COOKBOOK_DB_PORT",
	Name:            "COOKBOOK_DB_NAME",
	User:            "COOKBOOK_DB_USER",
	Password:        "COOKBOOK_DB_PASSWORD",
	SSLMode:         "COOKBOOK_DB_SSL_MODE",
	MaxOpenConns:    "COOKBOOK_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "COOKBOOK_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "COOKBOOK_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "COOKBOOK_DB_CONN_TIMEOUT",
	AutoMigrate:     "COOKBOOK_DB_AUTO_MIGRATE",
}

var storageEnv = &storage.Env{
	ContainerName:    "COOKBOOK_STORAGE_CONTAINER_NAME",
	ConnectionString: "COOKBOOK_STORAGE_CONNECTION_STRING",
}

var dispatchEnv = &dispatch.Env{
	Addr:     "COOKBOOK_REDIS_ADDR",
	Username: "COOKBOOK_REDIS_USERNAME",
	Password: "COOKBOOK_REDIS_PASSWORD",
	DB:       "COOKBOOK_REDIS_DB",
	UseTLS:   "COOKBOOK_REDIS_USE_TLS",
	Queue:    "COOKBOOK_REDIS_QUEUE",
}

// Config is the root configuration for the cookbook service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Store           StoreConfig     `toml:"store"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Dispatch        dispatch.Config `toml:"dispatch"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the COOKBOOK_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCookbookEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load reads a .env file and the base config (both optional), applies any
// environment overlay, and finalizes all values. Variables already set in
// the process environment take precedence over the .env file.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadDatabase reads the same sources as Load but finalizes only the
// database section, regardless of the selected store backend.
func LoadDatabase() (*database.Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("finalize database config: %w", err)
	}

	return &cfg.Database, nil
}

func read() (*Config, error) {
	if _, err := os.Stat(DotEnvFile); err == nil {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
		}
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.Store.Merge(&overlay.Store)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Dispatch.Merge(&overlay.Dispatch)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Store.Finalize(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if c.Store.Backend == BackendPostgres {
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Dispatch.Finalize(dispatchEnv); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	defaultString(&c.ShutdownTimeout, "30s")
	defaultString(&c.Version, "0.1.0")
}

func (c *Config) loadEnv() {
	envString(EnvCookbookShutdownTimeout, &c.ShutdownTimeout)
	envString(EnvCookbookVersion, &c.Version)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCookbookEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
