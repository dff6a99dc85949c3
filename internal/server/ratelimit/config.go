package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window (0 = unlimited)
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled           bool
	RequestsPerSecond float64 // Default sustained rate per client
	Burst             int     // Default burst per client
	CleanupInterval   time.Duration
	IdleTimeout       time.Duration // Buckets unused this long are dropped
	Whitelist         map[string]bool
	Blacklist         map[string]bool
	EndpointConfigs   []EndpointConfig
}

// NewConfig builds a Config with the default endpoint tiers.
// whitelist and blacklist are comma-separated client IPs.
func NewConfig(enabled bool, requestsPerSecond float64, burst int, whitelist, blacklist string) *Config {
	return &Config{
		Enabled:           enabled,
		RequestsPerSecond: requestsPerSecond,
		Burst:             burst,
		CleanupInterval:   5 * time.Minute,
		IdleTimeout:       time.Hour,
		Whitelist:         parseIPList(whitelist),
		Blacklist:         parseIPList(blacklist),
		EndpointConfigs:   DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Scoring a full pool is the expensive path
		{Path: "/matches", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/projects/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Reads fall through to the default rate; health and metrics are unlimited in the matcher
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}
