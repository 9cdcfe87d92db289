package dispatch

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Redis queue connection parameters. An empty Addr disables
// the queue.
type Config struct {
	Addr        string `toml:"addr"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	UseTLS      bool   `toml:"use_tls"`
	Queue       string `toml:"queue"`
	DialTimeout string `toml:"dial_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Addr     string
	Username string
	Password string
	DB       string
	UseTLS   string
	Queue    string
}

// Enabled reports whether a Redis address is configured.
func (c *Config) Enabled() bool {
	return c.Addr != ""
}

// DialTimeoutDuration parses DialTimeout into a time.Duration.
func (c *Config) DialTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.DialTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.UseTLS {
		c.UseTLS = overlay.UseTLS
	}
	if overlay.Queue != "" {
		c.Queue = overlay.Queue
	}
	if overlay.DialTimeout != "" {
		c.DialTimeout = overlay.DialTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Queue == "" {
		c.Queue = "cookbook:jobs"
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "10s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Addr != "" {
		if v := os.Getenv(env.Addr); v != "" {
			c.Addr = v
		}
	}
	if env.Username != "" {
		if v := os.Getenv(env.Username); v != "" {
			c.Username = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.DB != "" {
		if v := os.Getenv(env.DB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.DB = n
			}
		}
	}
	if env.UseTLS != "" {
		if v := os.Getenv(env.UseTLS); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.UseTLS = b
			}
		}
	}
	if env.Queue != "" {
		if v := os.Getenv(env.Queue); v != "" {
			c.Queue = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.DialTimeout); err != nil {
		return fmt.Errorf("invalid dial_timeout: %w", err)
	}
	if c.DB < 0 {
		return fmt.Errorf("db must be non-negative")
	}
	return nil
}
