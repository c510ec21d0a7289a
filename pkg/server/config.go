package server

import "time"

// Config holds configuration for the HTTP adapter.
type Config struct {
	// Address is the address to listen on (e.g., ":8080").
	// Default: ":8080".
	Address string

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 30 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 60 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 2 minutes.
	IdleTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful
	// shutdown. Default: 30 seconds.
	ShutdownTimeout time.Duration

	// MetricsPath is where Prometheus metrics are exposed.
	// Empty disables the endpoint. Default: "/metrics".
	MetricsPath string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:         ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		MetricsPath:     "/metrics",
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// WithAddress sets the listen address and returns the config for
// chaining.
func (c *Config) WithAddress(addr string) *Config {
	c.Address = addr
	return c
}

// WithMetricsPath sets the metrics endpoint path and returns the
// config for chaining.
func (c *Config) WithMetricsPath(path string) *Config {
	c.MetricsPath = path
	return c
}

// WithShutdownTimeout sets the graceful shutdown timeout and returns
// the config for chaining.
func (c *Config) WithShutdownTimeout(d time.Duration) *Config {
	c.ShutdownTimeout = d
	return c
}
