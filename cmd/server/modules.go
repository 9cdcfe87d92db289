package main

import (
	"net/http"

	"github.com/JaimeStill/cookbook/internal/api"
	"github.com/JaimeStill/cookbook/internal/config"
	"github.com/JaimeStill/cookbook/internal/infrastructure"
	"github.com/JaimeStill/cookbook/pkg/handlers"
	"github.com/JaimeStill/cookbook/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

type probe struct {
	Status  string          `json:"status"`
	Version string          `json:"version,omitempty"`
	Store   string          `json:"store,omitempty"`
	Checks  map[string]bool `json:"checks,omitempty"`
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, probe{Status: "ok", Version: cfg.Version})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		p := probe{Status: "ready", Store: cfg.Store.Backend, Checks: infra.Lifecycle.Status()}
		status := http.StatusOK
		if !infra.Lifecycle.Ready() {
			p.Status = "not ready"
			status = http.StatusServiceUnavailable
		}
		handlers.RespondJSON(w, status, p)
	})

	return router
}
