package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/cookbook/pkg/database"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() database.Config {
	return database.Config{
		Host:            "localhost",
		Port:            5432,
		Name:            "testdb",
		User:            "testuser",
		Password:        "testpass",
		SSLMode:         "disable",
		MaxOpenConns:    42,
		MaxIdleConns:    7,
		ConnMaxLifetime: "10m",
		ConnTimeout:     "3s",
	}
}

func TestNewSetsPoolParams(t *testing.T) {
	cfg := testConfig()

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := sys.Connection()
	defer conn.Close()

	if got := conn.Stats().MaxOpenConnections; got != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", got)
	}
}

func TestNotReadyBeforeStart(t *testing.T) {
	cfg := testConfig()
	cfg.AutoMigrate = true

	schema := fstest.MapFS{
		"schema/000001_init.up.sql":   {Data: []byte("CREATE TABLE t (id int);")},
		"schema/000001_init.down.sql": {Data: []byte("DROP TABLE t;")},
	}

	sys, err := database.New(&cfg, discard(), database.WithMigrations(schema, "schema"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Connection().Close()

	if sys.Ready() {
		t.Error("Ready() should be false before startup")
	}
	if err := sys.Check(); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Check() = %v, want ErrNotReady", err)
	}
}

func TestMigrateMissingSource(t *testing.T) {
	cfg := testConfig()
	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Connection().Close()

	_, err = database.Migrate(context.Background(), sys.Connection(), fstest.MapFS{}, "missing")
	if err == nil {
		t.Fatal("expected error for missing migration directory")
	}
}
