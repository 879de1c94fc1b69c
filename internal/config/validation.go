package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for startup-blocking problems.
// Errors here are fatal: the service must not start with a malformed
// connection string or an unusable AI endpoint.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("%w: set DATABASE_URL", ErrMissingDatabaseURL)
	}
	if err := validateDatabaseURL(c.DatabaseURL); err != nil {
		return err
	}

	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}

	if strings.TrimSpace(c.EmbeddingModel) == "" {
		return fmt.Errorf("%w: embedding model is empty", ErrInvalidModelName)
	}
	if strings.TrimSpace(c.ChatModel) == "" {
		return fmt.Errorf("%w: chat model is empty", ErrInvalidModelName)
	}

	// pgvector supports up to 16000 dimensions for the vector type.
	if c.EmbeddingDim < 1 || c.EmbeddingDim > 16000 {
		return fmt.Errorf("%w: %d (must be 1-16000)", ErrInvalidDimension, c.EmbeddingDim)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidPort, c.Port)
	}

	return nil
}

// validateDatabaseURL checks that the connection string parses as a
// postgres:// or postgresql:// URL with a host.
func validateDatabaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDatabaseURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
	default:
		return fmt.Errorf("%w: scheme %q (expected postgres or postgresql)", ErrInvalidDatabaseURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidDatabaseURL)
	}
	return nil
}
