// Package config provides environment-driven configuration for the viewer.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/persistorai/mindmap/internal/models"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all viewer configuration values.
type Config struct {
	ServerURL      string
	APIKey         Secret
	Port           string
	ListenHost     string
	CORSOrigins    []string
	LogLevel       string
	RootNodeID     models.NodeID
	RootNodeName   string
	RequestTimeout time.Duration
	ExportDir      string
	CircuitBreaker bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:      strings.TrimRight(envOrDefault("MINDMAP_SERVER_URL", "http://localhost:8000/api"), "/"),
		APIKey:         Secret(envOrDefault("MINDMAP_API_KEY", "")),
		Port:           envOrDefault("PORT", "3040"),
		ListenHost:     envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		RootNodeName:   envOrDefault("ROOT_NODE_NAME", models.DefaultRootName),
		ExportDir:      envOrDefault("EXPORT_DIR", "."),
		CircuitBreaker: envOrDefault("CIRCUIT_BREAKER", "true") == "true",
	}

	rootID, err := models.ParseNodeID(envOrDefault("ROOT_NODE_ID", models.DefaultRootID.String()))
	if err != nil {
		return nil, fmt.Errorf("ROOT_NODE_ID must be a positive integer")
	}
	cfg.RootNodeID = rootID

	timeout, err := time.ParseDuration(envOrDefault("REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be a duration such as 30s: %w", err)
	}
	cfg.RequestTimeout = timeout

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// RootRule returns the root exclusion rule for the configured root node.
func (c *Config) RootRule() models.RootRule {
	return models.RootRule{ID: c.RootNodeID, Name: c.RootNodeName}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
