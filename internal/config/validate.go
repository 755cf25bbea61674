package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Request timeout bounds.
const (
	minRequestTimeout = time.Second
	maxRequestTimeout = 5 * time.Minute
)

func (c *Config) validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if err := c.validateView(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateServer() error {
	u, err := url.ParseRequestURI(c.ServerURL)
	if err != nil {
		return fmt.Errorf("MINDMAP_SERVER_URL is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("MINDMAP_SERVER_URL scheme must be http:// or https://")
	}

	if u.Hostname() == "" {
		return fmt.Errorf("MINDMAP_SERVER_URL must include a host")
	}

	// Never send the API key in clear text to a remote host.
	if c.APIKey.Value() != "" && u.Scheme != "https" && !isLocalhost(c.ServerURL) {
		return fmt.Errorf("MINDMAP_SERVER_URL must use HTTPS when MINDMAP_API_KEY is set for a non-localhost server")
	}

	if c.RequestTimeout < minRequestTimeout || c.RequestTimeout > maxRequestTimeout {
		return fmt.Errorf("REQUEST_TIMEOUT must be between %s and %s", minRequestTimeout, maxRequestTimeout)
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if c.ListenHost != "127.0.0.1" && c.ListenHost != "::1" && c.ListenHost != "localhost" {
		return fmt.Errorf("LISTEN_HOST must be a loopback address (127.0.0.1, ::1, or localhost), got %q", c.ListenHost)
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func (c *Config) validateView() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if strings.TrimSpace(c.RootNodeName) == "" {
		return fmt.Errorf("ROOT_NODE_NAME must not be empty")
	}

	info, err := os.Stat(c.ExportDir)
	if err != nil {
		return fmt.Errorf("EXPORT_DIR: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("EXPORT_DIR %q is not a directory", c.ExportDir)
	}

	return nil
}

// isLocalhost returns true if the given address points to a loopback address.
func isLocalhost(addr string) bool {
	u, err := url.Parse(addr)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
