package server

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// ShutdownTimeoutSeconds bounds graceful shutdown, including the running sync.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" default:"30"`
	// MetricsPublic exposes /metrics without the API key.
	MetricsPublic bool `mapstructure:"metrics_public" default:"true"`
}

// Validate checks the listen settings.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("server: invalid port %q", c.Port)
	}
	if c.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("server: shutdown_timeout_seconds must not be negative")
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// ShutdownTimeout is ShutdownTimeoutSeconds as a duration.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// PublicPaths lists the routes served without the API key.
func (c Config) PublicPaths() []string {
	paths := []string{"/health"}
	if c.MetricsPublic {
		paths = append(paths, "/metrics")
	}
	return paths
}
