package storage

import (
	"fmt"
	"os"
	"regexp"
)

// containerPattern follows Azure's container naming rules: 3 to 63
// lowercase letters, digits, and single hyphens, starting and ending with a
// letter or digit.
var containerPattern = regexp.MustCompile(`^[a-z0-9](?:-?[a-z0-9])+$`)

// Config holds Azure Blob Storage connection parameters. An empty
// ConnectionString disables blob storage.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
}

// Enabled reports whether a connection string is configured.
func (c *Config) Enabled() bool {
	return c.ConnectionString != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.ContainerName == "" {
		c.ContainerName = "exports"
	}
	if env != nil {
		override(env.ContainerName, &c.ContainerName)
		override(env.ConnectionString, &c.ConnectionString)
	}

	if n := len(c.ContainerName); n < 3 || n > 63 || !containerPattern.MatchString(c.ContainerName) {
		return fmt.Errorf("invalid container_name %q", c.ContainerName)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
}

func override(name string, dst *string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
