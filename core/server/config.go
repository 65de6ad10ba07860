package server

import (
	"strings"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// MetricsPath is where Prometheus metrics are exposed. Empty disables the endpoint.
	MetricsPath string `mapstructure:"metrics_path" default:"/metrics"`
	// MediaCacheSeconds is how long rendered media views are cached. Zero disables the cache.
	MediaCacheSeconds int `mapstructure:"media_cache_seconds" default:"60"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// MetricsEnabled reports whether the metrics endpoint should be mounted.
func (c Config) MetricsEnabled() bool {
	return strings.HasPrefix(c.MetricsPath, "/")
}

// MediaCacheTTL returns the media view cache lifetime.
func (c Config) MediaCacheTTL() time.Duration {
	if c.MediaCacheSeconds <= 0 {
		return 0
	}
	return time.Duration(c.MediaCacheSeconds) * time.Second
}
