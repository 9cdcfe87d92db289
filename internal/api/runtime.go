package api

import (
	"github.com/JaimeStill/cookbook/internal/config"
	"github.com/JaimeStill/cookbook/internal/infrastructure"
	"github.com/JaimeStill/cookbook/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	MaxImportSize int64
	Admins        []string
	MaxLibraries  int
	Version       string
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     infra.Logger.With("module", "api"),
			Store:      infra.Store,
			Dispatcher: infra.Dispatcher,
			Database:   infra.Database,
			Storage:    infra.Storage,
			Queue:      infra.Queue,
		},
		Pagination:    cfg.API.Pagination,
		MaxImportSize: cfg.API.MaxImportSizeBytes(),
		Admins:        cfg.API.Admins,
		MaxLibraries:  cfg.API.MaxLibraries,
		Version:       cfg.Version,
	}
}
