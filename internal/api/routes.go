package api

import (
	"net/http"

	"github.com/JaimeStill/cookbook/internal/library"
	"github.com/JaimeStill/cookbook/pkg/handlers"
	"github.com/JaimeStill/cookbook/pkg/routes"
)

// Index describes the API surface served at the module root.
type Index struct {
	Version   string            `json:"version"`
	Endpoints []routes.Endpoint `json:"endpoints"`
}

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	libraryHandler := library.NewHandler(
		domain.Libraries,
		runtime.Logger,
		runtime.Pagination,
		runtime.MaxImportSize,
		runtime.Storage,
	)

	groups := []routes.Group{libraryHandler.Routes()}
	if runtime.Storage != nil {
		groups = append(groups, newArchiveHandler(runtime.Storage, runtime.Logger).routes())
	}

	index := Index{
		Version:   runtime.Version,
		Endpoints: routes.Register(mux, groups...),
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, index)
	})
}
