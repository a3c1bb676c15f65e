// Package config loads application configuration from environment
// variables (prefix AUDITLENS) layered over an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the environment variable prefix, e.g. AUDITLENS_SERVER_PORT.
const envPrefix = "AUDITLENS"

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Session  SessionConfig  `yaml:"session" envconfig:"SESSION"`
	Agent    AgentConfig    `yaml:"agent" envconfig:"AGENT"`
	Fetch    FetchConfig    `yaml:"fetch" envconfig:"FETCH"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" envconfig:"MAX_BODY_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// SecurityConfig contains the bearer gate, CORS and rate limiting settings.
// An empty APIToken leaves the gate open.
type SecurityConfig struct {
	APIToken       string          `yaml:"api_token" envconfig:"API_TOKEN"`
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
	Output string `yaml:"output" envconfig:"OUTPUT"`
}

// SessionConfig bounds the in-memory session store.
type SessionConfig struct {
	Capacity int           `yaml:"capacity" envconfig:"CAPACITY"`
	TTL      time.Duration `yaml:"ttl" envconfig:"TTL"`
}

// AgentConfig configures the LLM narrative agent.
type AgentConfig struct {
	Model     string        `yaml:"model" envconfig:"MODEL"`
	APIKey    string        `yaml:"api_key" envconfig:"API_KEY"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	MaxChunks int           `yaml:"max_chunks" envconfig:"MAX_CHUNKS"`
	ChunkSize int           `yaml:"chunk_size" envconfig:"CHUNK_SIZE"`
	Enabled   bool          `yaml:"enabled" envconfig:"ENABLED"`
}

// FetchConfig configures the document fetch proxy.
type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxBodyBytes:    5242880,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:4200"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Session: SessionConfig{
			Capacity: 1024,
			TTL:      24 * time.Hour,
		},
		Agent: AgentConfig{
			Model:     "gemini-2.0-flash",
			Timeout:   60 * time.Second,
			MaxChunks: 6,
			ChunkSize: 6000,
			Enabled:   true,
		},
		Fetch: FetchConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Load loads configuration in three layers: built-in defaults, then the YAML
// file (when AUDITLENS_CONFIG points at one or config.yaml exists), then
// environment variables on top.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := configFilePath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func configFilePath() string {
	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Session.Capacity <= 0 {
		return fmt.Errorf("session capacity must be positive, got %d", c.Session.Capacity)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Agent.MaxChunks <= 0 || c.Agent.ChunkSize <= 0 {
		return fmt.Errorf("agent chunking must be positive, got max_chunks=%d chunk_size=%d",
			c.Agent.MaxChunks, c.Agent.ChunkSize)
	}
	return nil
}
