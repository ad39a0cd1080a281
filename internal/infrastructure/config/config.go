package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Client    ClientConfig
	LLM       LLMConfig
	Cache     CacheConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// ClientConfig holds the canvas client's connection settings.
type ClientConfig struct {
	Endpoint       string        `envconfig:"CANVAS_ENDPOINT" default:"ws://localhost:8000/ws"`
	ReconnectDelay time.Duration `envconfig:"CANVAS_RECONNECT_DELAY" default:"3s"`
	Mode           string        `envconfig:"CANVAS_MODE" default:"text_to_flowchart"`
	WriteTimeout   time.Duration `envconfig:"CANVAS_WRITE_TIMEOUT" default:"10s"`
}

// LLMConfig holds the Ollama generate endpoint settings.
type LLMConfig struct {
	URL         string        `envconfig:"OLLAMA_URL" default:"http://localhost:11434/api/generate"`
	Model       string        `envconfig:"OLLAMA_MODEL" default:"gemma3:1B"`
	Temperature float64       `envconfig:"OLLAMA_TEMPERATURE" default:"0.5"`
	Timeout     time.Duration `envconfig:"OLLAMA_TIMEOUT" default:"2m"`
	Retries     int           `envconfig:"OLLAMA_RETRIES" default:"2"`
}

// CacheConfig holds the generated diagram cache settings.
type CacheConfig struct {
	TTL      time.Duration `envconfig:"DIAGRAM_CACHE_TTL" default:"10m"`
	Capacity uint64        `envconfig:"DIAGRAM_CACHE_SIZE" default:"256"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Client: ClientConfig{
			Endpoint:       "ws://localhost:8000/ws",
			ReconnectDelay: 3 * time.Second,
			Mode:           "text_to_flowchart",
			WriteTimeout:   10 * time.Second,
		},
		LLM: LLMConfig{
			URL:         "http://localhost:11434/api/generate",
			Model:       "gemma3:1B",
			Temperature: 0.5,
			Timeout:     2 * time.Minute,
			Retries:     2,
		},
		Cache: CacheConfig{
			TTL:      10 * time.Minute,
			Capacity: 256,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
