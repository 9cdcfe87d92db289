package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/JaimeStill/cookbook/internal/config"
	"github.com/JaimeStill/cookbook/internal/infrastructure"
	"github.com/JaimeStill/cookbook/pkg/lifecycle"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:              "127.0.0.1",
			Port:              0,
			ReadTimeout:       "5s",
			ReadHeaderTimeout: "5s",
			WriteTimeout:      "5s",
			ShutdownTimeout:   "5s",
		},
		Store:   config.StoreConfig{Backend: config.BackendMemory},
		Version: "1.2.3",
	}
}

func TestProbes(t *testing.T) {
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	infra, err := infrastructure.NewWithLogger(cfg, logger)
	if err != nil {
		t.Fatalf("infrastructure: %v", err)
	}

	router := buildRouter(infra, cfg)

	get := func(target string) (int, probe) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
		var p probe
		if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
			t.Fatalf("decode %s: %v", target, err)
		}
		return rec.Code, p
	}

	if code, p := get("/healthz"); code != http.StatusOK || p.Version != "1.2.3" {
		t.Errorf("healthz: %d %+v", code, p)
	}

	if code, p := get("/readyz"); code != http.StatusServiceUnavailable || p.Checks["startup"] {
		t.Errorf("readyz before startup: %d %+v", code, p)
	}

	infra.Lifecycle.Check("dependency", lifecycle.ReadinessFunc(func() bool { return false }))
	infra.Lifecycle.WaitForStartup()
	if code, p := get("/readyz"); code != http.StatusServiceUnavailable || p.Checks["dependency"] {
		t.Errorf("readyz with failing check: %d %+v", code, p)
	}

	infra.Lifecycle.Check("dependency", lifecycle.ReadinessFunc(func() bool { return true }))
	if code, p := get("/readyz"); code != http.StatusOK || p.Store != config.BackendMemory {
		t.Errorf("readyz: %d %+v", code, p)
	}
}

func TestHTTPServerBindsAndShutsDown(t *testing.T) {
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lc := lifecycle.New()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	srv := newHTTPServer(&cfg.Server, handler, logger)
	if err := srv.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status: got %d", resp.StatusCode)
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestHTTPServerPortInUse(t *testing.T) {
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first := newHTTPServer(&cfg.Server, http.NotFoundHandler(), logger)
	lc := lifecycle.New()
	if err := first.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer lc.Shutdown(5 * time.Second)

	taken := cfg.Server
	taken.Host, taken.Port = "127.0.0.1", portOf(t, first.Addr())

	second := newHTTPServer(&taken, http.NotFoundHandler(), logger)
	if err := second.Start(lifecycle.New()); err == nil {
		t.Error("expected bind error for a port already in use")
	}
}

func portOf(t *testing.T, addr string) int {
	t.Helper()
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split %s: %v", addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		t.Fatalf("port %s: %v", port, err)
	}
	return n
}
