// Package config provides environment configuration for the API server.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Collaborator CRUD backend
	BackendBaseURL string
	BackendToken   string
	BackendTimeout time.Duration

	// LLM settings
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	RouterModel     string
	LLMTimeout      time.Duration

	// Agent settings
	PageSize      int
	ScanBudget    int
	HistoryWindow int

	// Conversation state store
	StateBackend string // "memory" or "nats"
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string
	StateBucket  string

	// JWT settings
	JWTSecret string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// ErrMissingBackend indicates the collaborator API is not configured.
// Turns cannot run without it, so callers should surface this distinctly
// from an empty answer.
var ErrMissingBackend = errors.New("backend base URL and token must be configured")

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// Backend
		BackendBaseURL: getEnv("BACKEND_BASE_URL", ""),
		BackendToken:   getEnv("BACKEND_TOKEN", ""),
		BackendTimeout: getDurationEnv("BACKEND_TIMEOUT", 15*time.Second),

		// LLM
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		RouterModel:     getEnv("ROUTER_MODEL", "meta-llama/Llama-3.1-8B-Instruct"),
		LLMTimeout:      getDurationEnv("LLM_TIMEOUT", 30*time.Second),

		// Agent
		PageSize:      getIntEnv("PAGE_SIZE", 20),
		ScanBudget:    getIntEnv("SCAN_BUDGET", 5),
		HistoryWindow: getIntEnv("HISTORY_WINDOW", 4),

		// State store
		StateBackend: getEnv("STATE_BACKEND", "memory"),
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),
		StateBucket:  getEnv("STATE_BUCKET", "conversation_state"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// Validate checks that required collaborator settings are present.
func (c *Config) Validate() error {
	if c.BackendBaseURL == "" || c.BackendToken == "" {
		return ErrMissingBackend
	}
	if c.PageSize <= 0 {
		return errors.New("page size must be positive")
	}
	if c.ScanBudget <= 0 {
		return errors.New("scan budget must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
