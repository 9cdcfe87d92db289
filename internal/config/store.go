package config

import (
	"fmt"
	"slices"
)

// Recipe store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

const (
	EnvStoreBackend     = "COOKBOOK_STORE_BACKEND"
	EnvStoreSupabaseURL = "COOKBOOK_SUPABASE_URL"
	EnvStoreSupabaseKey = "COOKBOOK_SUPABASE_KEY"
)

var backends = []string{BackendMemory, BackendPostgres, BackendSupabase}

// StoreConfig selects the recipe persistence backend.
type StoreConfig struct {
	Backend     string `toml:"backend"`
	SupabaseURL string `toml:"supabase_url"`
	SupabaseKey string `toml:"supabase_key"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *StoreConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *StoreConfig) Merge(overlay *StoreConfig) {
	mergeString(&c.Backend, overlay.Backend)
	mergeString(&c.SupabaseURL, overlay.SupabaseURL)
	mergeString(&c.SupabaseKey, overlay.SupabaseKey)
}

func (c *StoreConfig) loadDefaults() {
	defaultString(&c.Backend, BackendMemory)
}

func (c *StoreConfig) loadEnv() {
	envString(EnvStoreBackend, &c.Backend)
	envString(EnvStoreSupabaseURL, &c.SupabaseURL)
	envString(EnvStoreSupabaseKey, &c.SupabaseKey)
}

func (c *StoreConfig) validate() error {
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("unknown backend %q, want one of %v", c.Backend, backends)
	}
	if c.Backend == BackendSupabase {
		if c.SupabaseURL == "" {
			return fmt.Errorf("supabase_url required")
		}
		if c.SupabaseKey == "" {
			return fmt.Errorf("supabase_key required")
		}
	}
	return nil
}
