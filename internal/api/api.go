// Package api assembles the API module with the recipe library and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/cookbook/internal/config"
	"github.com/JaimeStill/cookbook/internal/infrastructure"
	"github.com/JaimeStill/cookbook/internal/library"
	"github.com/JaimeStill/cookbook/pkg/middleware"
	"github.com/JaimeStill/cookbook/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(
		middleware.Recover(runtime.Logger),
		middleware.Logger(runtime.Logger, library.OwnerHeader),
		middleware.CORS(&cfg.API.CORS),
	)

	return m, nil
}
