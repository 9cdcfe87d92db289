package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/cookbook/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "exports" {
		t.Errorf("container_name: got %s, want exports", cfg.ContainerName)
	}
	if cfg.Enabled() {
		t.Error("storage without a connection string should be disabled")
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "archives")
	t.Setenv("TEST_CONN", "override-connection")

	env := &storage.Env{
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "archives" {
		t.Errorf("container_name: got %s, want archives", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
	if !cfg.Enabled() {
		t.Error("storage with a connection string should be enabled")
	}
}

func TestFinalizeBlankEnvKeepsDefault(t *testing.T) {
	t.Setenv("TEST_BLANK_CONTAINER", "")

	cfg := storage.Config{}
	if err := cfg.Finalize(&storage.Env{ContainerName: "TEST_BLANK_CONTAINER"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.ContainerName != "exports" {
		t.Errorf("container_name: got %s, want exports", cfg.ContainerName)
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		ContainerName:    "exports",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{ConnectionString: "overlay-conn"}
	base.Merge(&overlay)

	if base.ContainerName != "exports" {
		t.Errorf("container_name should remain exports, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
}

func TestFinalizeContainerName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"exports", true},
		{"library-exports", true},
		{"a1b", true},
		{"ab", false},
		{"Exports", false},
		{"-exports", false},
		{"exports-", false},
		{"library--exports", false},
		{"library_exports", false},
		{strings.Repeat("a", 64), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := storage.Config{ContainerName: tt.name}
			err := cfg.Finalize(nil)
			if (err == nil) != tt.valid {
				t.Errorf("Finalize() error = %v, valid %v", err, tt.valid)
			}
		})
	}
}
