package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/cookbook/internal/library"
	"github.com/JaimeStill/cookbook/pkg/formatting"
	"github.com/JaimeStill/cookbook/pkg/middleware"
	"github.com/JaimeStill/cookbook/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "COOKBOOK_CORS_ENABLED",
	Origins:          "COOKBOOK_CORS_ORIGINS",
	AllowedMethods:   "COOKBOOK_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "COOKBOOK_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "COOKBOOK_CORS_EXPOSED_HEADERS",
	AllowCredentials: "COOKBOOK_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "COOKBOOK_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "COOKBOOK_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "COOKBOOK_PAGINATION_MAX_PAGE_SIZE",
}

const (
	EnvAPIBasePath      = "COOKBOOK_API_BASE_PATH"
	EnvAPIMaxImportSize = "COOKBOOK_API_MAX_IMPORT_SIZE"
	EnvAPIAdmins        = "COOKBOOK_API_ADMINS"
	EnvAPIMaxLibraries  = "COOKBOOK_API_MAX_LIBRARIES"
)

// APIConfig holds API routing, import limits, admin owners, the library
// cache bound, CORS, and pagination settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxImportSize string                `toml:"max_import_size"`
	Admins        []string              `toml:"admins"`
	MaxLibraries  int                   `toml:"max_libraries"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxImportSizeBytes returns MaxImportSize in bytes.
func (c *APIConfig) MaxImportSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxImportSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	mergeString(&c.BasePath, overlay.BasePath)
	mergeString(&c.MaxImportSize, overlay.MaxImportSize)
	if overlay.Admins != nil {
		c.Admins = overlay.Admins
	}
	if overlay.MaxLibraries > 0 {
		c.MaxLibraries = overlay.MaxLibraries
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	defaultString(&c.BasePath, "/api")
	defaultString(&c.MaxImportSize, "10MB")
	if c.MaxLibraries == 0 {
		c.MaxLibraries = library.DefaultCapacity
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Content-Type", "Authorization", library.OwnerHeader}
	}
}

func (c *APIConfig) loadEnv() {
	envString(EnvAPIBasePath, &c.BasePath)
	envString(EnvAPIMaxImportSize, &c.MaxImportSize)
	envInt(EnvAPIMaxLibraries, &c.MaxLibraries)
	if v := os.Getenv(EnvAPIAdmins); v != "" {
		admins := strings.Split(v, ",")
		c.Admins = make([]string, 0, len(admins))
		for _, admin := range admins {
			if trimmed := strings.TrimSpace(admin); trimmed != "" {
				c.Admins = append(c.Admins, trimmed)
			}
		}
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxImportSize)
	if err != nil {
		return fmt.Errorf("invalid max_import_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_import_size must be positive")
	}
	if c.MaxLibraries < 1 {
		return fmt.Errorf("max_libraries must be positive")
	}
	return nil
}
