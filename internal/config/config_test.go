package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/cookbook/internal/config"
	"github.com/JaimeStill/cookbook/internal/library"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.2.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "2m"
shutdown_timeout = "30s"

[store]
backend = "postgres"

[database]
host = "localhost"
port = 5432
name = "cookbook"
user = "cookbook"
password = "cookbook"

[storage]
container_name = "library-exports"

[dispatch]
addr = "localhost:6379"
queue = "cookbook:test"

[api]
base_path = "/api"
max_import_size = "2MB"
admins = ["curator"]

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Backend != config.BackendPostgres {
		t.Errorf("store backend: got %s, want postgres", cfg.Store.Backend)
	}
	if cfg.Database.Name != "cookbook" {
		t.Errorf("database name: got %s, want cookbook", cfg.Database.Name)
	}
	if cfg.Storage.ContainerName != "library-exports" {
		t.Errorf("container: got %s", cfg.Storage.ContainerName)
	}
	if cfg.Storage.Enabled() {
		t.Error("storage without connection string should be disabled")
	}
	if !cfg.Dispatch.Enabled() || cfg.Dispatch.Queue != "cookbook:test" {
		t.Errorf("dispatch: got %+v", cfg.Dispatch)
	}
	if got := cfg.API.MaxImportSizeBytes(); got != 2*1024*1024 {
		t.Errorf("max import size: got %d", got)
	}
	if diff := cmp.Diff([]string{"curator"}, cfg.API.Admins); diff != "" {
		t.Errorf("admins (-want +got):\n%s", diff)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("default page size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %s", cfg.ShutdownTimeoutDuration())
	}
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Store.Backend != config.BackendMemory {
		t.Errorf("store backend: got %s, want memory", cfg.Store.Backend)
	}
	if cfg.Dispatch.Enabled() {
		t.Error("dispatch should be disabled without an address")
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("base path: got %s", cfg.API.BasePath)
	}
	if got := cfg.API.MaxImportSizeBytes(); got != 10*1024*1024 {
		t.Errorf("max import size: got %d", got)
	}
	if cfg.API.MaxLibraries != library.DefaultCapacity {
		t.Errorf("max libraries: got %d, want %d", cfg.API.MaxLibraries, library.DefaultCapacity)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr: got %s", cfg.Server.Addr())
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.prod.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv(config.EnvCookbookEnv, "prod")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("database host: got %s, want prodhost", cfg.Database.Host)
	}
	if cfg.Database.Name != "cookbook" {
		t.Errorf("database name should survive overlay, got %s", cfg.Database.Name)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	t.Setenv(config.EnvServerPort, "7070")
	t.Setenv("COOKBOOK_DB_NAME", "override")
	t.Setenv("COOKBOOK_REDIS_QUEUE", "jobs:override")
	t.Setenv(config.EnvAPIAdmins, "root, curator ,")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server port: got %d", cfg.Server.Port)
	}
	if cfg.Database.Name != "override" {
		t.Errorf("database name: got %s", cfg.Database.Name)
	}
	if cfg.Dispatch.Queue != "jobs:override" {
		t.Errorf("queue: got %s", cfg.Dispatch.Queue)
	}
	if diff := cmp.Diff([]string{"root", "curator"}, cfg.API.Admins); diff != "" {
		t.Errorf("admins (-want +got):\n%s", diff)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.DotEnvFile, "COOKBOOK_STORE_BACKEND=memory\nCOOKBOOK_VERSION=9.9.9\n")
	chdir(t, dir)

	// registered so the values loaded from .env are restored afterwards
	for _, key := range []string{config.EnvCookbookVersion, config.EnvStoreBackend} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Version != "9.9.9" {
		t.Errorf("version: got %s, want 9.9.9 from .env", cfg.Version)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{config.EnvStoreBackend: "sqlite"}},
		{"supabase without url", map[string]string{config.EnvStoreBackend: "supabase"}},
		{"postgres without database", map[string]string{config.EnvStoreBackend: "postgres"}},
		{"bad import size", map[string]string{config.EnvAPIMaxImportSize: "lots"}},
		{"negative library cache", map[string]string{config.EnvAPIMaxLibraries: "-1"}},
		{"bad shutdown timeout", map[string]string{config.EnvCookbookShutdownTimeout: "soon"}},
		{"bad port", map[string]string{config.EnvServerPort: "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := config.Load(); err == nil {
				t.Error("expected load to fail")
			}
		})
	}
}

func TestLoadDatabase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, "[store]\nbackend = \"memory\"\n\n[database]\nname = \"cookbook\"\nuser = \"chef\"\n")
	chdir(t, dir)

	t.Setenv("COOKBOOK_DB_AUTO_MIGRATE", "true")

	db, err := config.LoadDatabase()
	if err != nil {
		t.Fatalf("load database failed: %v", err)
	}

	if db.Host != "localhost" || db.Port != 5432 {
		t.Errorf("defaults not applied: %s:%d", db.Host, db.Port)
	}
	if !db.AutoMigrate {
		t.Error("auto_migrate should come from the environment")
	}
	if want := "postgres://chef:@localhost:5432/cookbook?sslmode=disable"; db.URL() != want {
		t.Errorf("url: got %s, want %s", db.URL(), want)
	}
}

func TestLoadDatabaseRequiresName(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := config.LoadDatabase(); err == nil {
		t.Error("expected missing database name to fail")
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"localhost", 9090, "localhost:9090"},
		{"::1", 8080, "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cfg := config.ServerConfig{Host: tt.host, Port: tt.port}
			if got := cfg.Addr(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestServerReadHeaderTimeout(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(config.EnvServerReadHeaderTimeout, "3s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := cfg.Server.ReadHeaderTimeoutDuration(); got != 3*time.Second {
		t.Errorf("read header timeout: got %s, want 3s", got)
	}
}
