package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/cookbook/internal/api"
	"github.com/JaimeStill/cookbook/internal/config"
	"github.com/JaimeStill/cookbook/internal/infrastructure"
	"github.com/JaimeStill/cookbook/internal/library"
	"github.com/JaimeStill/cookbook/pkg/middleware"
	"github.com/JaimeStill/cookbook/pkg/module"
	"github.com/JaimeStill/cookbook/pkg/pagination"
	"github.com/JaimeStill/cookbook/pkg/storage"
)

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Store: config.StoreConfig{Backend: config.BackendMemory},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxImportSize: "1MB",
			Admins:        []string{"curator"},
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	infra, err := infrastructure.NewWithLogger(validConfig(), logger)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	if err := infra.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.MaxImportSize != 1024*1024 {
		t.Errorf("max import size: got %d", runtime.MaxImportSize)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Store == nil {
		t.Error("runtime store is nil")
	}
	if runtime.Lifecycle == nil {
		t.Error("runtime lifecycle is nil")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)
	runtime := api.NewRuntime(cfg, infra)

	domain := api.NewDomain(runtime)
	if domain == nil || domain.Libraries == nil {
		t.Fatal("NewDomain() returned no library registry")
	}
}

func TestModuleRoutes(t *testing.T) {
	cfg := validConfig()
	m, err := api.NewModule(cfg, setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"recipes", "/api/recipes", http.StatusOK},
		{"categories", "/api/categories", http.StatusOK},
		{"tools", "/api/tools", http.StatusOK},
		{"archive without storage", "/api/archive/export.json", http.StatusNotFound},
		{"index", "/api", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.target, nil))

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/recipes", nil))

	var page struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total == 0 {
		t.Error("seeded system recipes should be listed")
	}
}

func TestArchiveRoutes(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)
	archive := storage.NewMemory()
	infra.Storage = archive

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)

	ctx := context.Background()
	if err := archive.Put(ctx, "exports/alice/a.json", []byte(`{"recipes":[]}`), "application/json"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := archive.Put(ctx, "exports/bob/b.json", []byte(`{}`), "application/json"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	request := func(method, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		req.Header.Set(library.OwnerHeader, "alice")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := request("GET", "/api/archive")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var exports []api.ArchivedExport
	if err := json.NewDecoder(rec.Body).Decode(&exports); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(exports) != 1 || exports[0].Name != "a.json" {
		t.Errorf("exports: got %+v, want only a.json", exports)
	}

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"download own", "GET", "/api/archive/a.json", http.StatusOK},
		{"other owner hidden", "GET", "/api/archive/b.json", http.StatusNotFound},
		{"delete own", "DELETE", "/api/archive/a.json", http.StatusNoContent},
		{"deleted", "GET", "/api/archive/a.json", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := request(tt.method, tt.target); rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)
	infra.Storage = storage.NewMemory()

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api", nil))

	var index api.Index
	if err := json.NewDecoder(rec.Body).Decode(&index); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if index.Version != "0.1.0" {
		t.Errorf("version: got %s", index.Version)
	}

	found := map[string]bool{}
	for _, e := range index.Endpoints {
		found[e.Pattern()] = true
		if e.Summary == "" {
			t.Errorf("%s has no summary", e.Pattern())
		}
	}
	for _, want := range []string{"GET /recipes", "POST /session/apply", "GET /archive/{name}"} {
		if !found[want] {
			t.Errorf("index missing %s", want)
		}
	}
}
