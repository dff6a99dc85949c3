// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/talent-matcher/internal/db"
	"github.com/jonathan/talent-matcher/internal/matching"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MATCH_SERVER_PORT
const EnvPrefix = "MATCH"

// Config represents the runtime configuration loaded from a YAML/JSON file and the environment.
// Every field is optional; unset keys take their value from Default.
type Config struct {
	Weights        matching.Weights `mapstructure:"weights"`         // Ranking policy
	Workers        int              `mapstructure:"workers"`         // Scoring goroutines per call (0 = GOMAXPROCS)
	DatabaseURL    string           `mapstructure:"database_url"`    // PostgreSQL connection URL
	CandidateLimit int              `mapstructure:"candidate_limit"` // Max stored profiles scored per project match
	Debug          bool             `mapstructure:"debug"`
	JSONLogs       bool             `mapstructure:"json"`

	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// RedisConfig configures the match result cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// NATSConfig configures match notifications. An empty URL disables publishing.
type NATSConfig struct {
	URL       string  `mapstructure:"url"`
	Subject   string  `mapstructure:"subject"`
	Threshold float64 `mapstructure:"threshold"` // Minimum total score that triggers a notification
}

// RateLimitConfig configures the per-client HTTP rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	Whitelist         string  `mapstructure:"whitelist"` // Comma-separated client IPs never throttled
	Blacklist         string  `mapstructure:"blacklist"` // Comma-separated client IPs always rejected
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Weights:        matching.DefaultWeights(),
		CandidateLimit: db.DefaultCandidateLimit,
		Server:         ServerConfig{Port: 8080},
		Redis:          RedisConfig{TTL: 15 * time.Minute},
		NATS:           NATSConfig{Subject: "matches.found", Threshold: 80},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// LoadConfig reads configuration from path (if non-empty) with MATCH_* environment overrides.
// The result has defaults applied but is not validated.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	merged := cfg.MergeWithDefaults(Default())
	return &merged, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("weights.skill", d.Weights.Skill)
	v.SetDefault("weights.availability_rate", d.Weights.AvailabilityRate)
	v.SetDefault("weights.contextual", d.Weights.Contextual)
	v.SetDefault("weights.required_skill_share", d.Weights.RequiredSkillShare)
	v.SetDefault("weights.preferred_skill_share", d.Weights.PreferredSkillShare)
	v.SetDefault("weights.availability_share", d.Weights.AvailabilityShare)
	v.SetDefault("weights.rate_share", d.Weights.RateShare)
	v.SetDefault("weights.reputation_damping", d.Weights.ReputationDamping)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("candidate_limit", d.CandidateLimit)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("json", d.JSONLogs)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.ttl", d.Redis.TTL)
	v.SetDefault("nats.url", d.NATS.URL)
	v.SetDefault("nats.subject", d.NATS.Subject)
	v.SetDefault("nats.threshold", d.NATS.Threshold)
	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("rate_limit.whitelist", d.RateLimit.Whitelist)
	v.SetDefault("rate_limit.blacklist", d.RateLimit.Blacklist)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Workers < 0 {
		return errors.New("config error: 'workers' must be non-negative")
	}
	if c.CandidateLimit <= 0 {
		return fmt.Errorf("config error: 'candidate_limit' must be positive, got %d", c.CandidateLimit)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	if c.Redis.DB < 0 {
		return errors.New("config error: 'redis.db' must be non-negative")
	}
	if c.Redis.TTL < 0 {
		return errors.New("config error: 'redis.ttl' must be non-negative")
	}
	if c.NATS.Threshold < 0 || c.NATS.Threshold > 100 {
		return fmt.Errorf("config error: 'nats.threshold' must be within 0-100, got %.2f", c.NATS.Threshold)
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return errors.New("config error: 'nats.subject' is required when 'nats.url' is set")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return errors.New("config error: 'rate_limit.requests_per_second' must be positive")
		}
		if c.RateLimit.Burst <= 0 {
			return errors.New("config error: 'rate_limit.burst' must be positive")
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// Fields where zero is meaningful (bools, nats.threshold, candidate_limit) are left alone;
// LoadConfig covers them with viper defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// An unset policy takes the default as a whole; a partial one is left for Validate to reject
	if result.Weights.IsZero() {
		result.Weights = defaults.Weights
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Redis.Addr == "" {
		result.Redis.Addr = defaults.Redis.Addr
	}
	if result.Redis.TTL == 0 {
		result.Redis.TTL = defaults.Redis.TTL
	}
	if result.NATS.URL == "" {
		result.NATS.URL = defaults.NATS.URL
	}
	if result.NATS.Subject == "" {
		result.NATS.Subject = defaults.NATS.Subject
	}
	if result.RateLimit.RequestsPerSecond == 0 {
		result.RateLimit.RequestsPerSecond = defaults.RateLimit.RequestsPerSecond
	}
	if result.RateLimit.Burst == 0 {
		result.RateLimit.Burst = defaults.RateLimit.Burst
	}

	return result
}
