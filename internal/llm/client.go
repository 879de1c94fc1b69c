// Package llm wraps the two remote model services sibyl depends on: an
// embedding endpoint (text -> vector) and a chat completion endpoint
// (prompt -> answer). Both are consumed over the OpenAI-compatible HTTP API
// so any conforming provider (OpenAI, Ollama, vLLM, ...) works.
//
// Failures are classified with two sentinels: ErrEmptyInput for input
// rejected before any network call, and ErrUpstream for transport errors,
// non-2xx responses, and malformed payloads. No retries happen here; the
// caller decides recovery.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

var (
	// ErrEmptyInput indicates text that is empty after trimming whitespace.
	// Returned before any remote call is made.
	ErrEmptyInput = errors.New("llm: empty input")

	// ErrUpstream indicates the remote model service failed: connection
	// error, timeout, non-2xx status, or a malformed/empty response body.
	ErrUpstream = errors.New("llm: upstream failure")
)

// DefaultTimeout bounds each remote call. A call that does not return within
// this window is treated as failed outright.
const DefaultTimeout = 30 * time.Second

// maxErrorBodyBytes caps how much of an upstream error body is read for
// logging.
const maxErrorBodyBytes = 4 << 10

// Config configures the client.
type Config struct {
	BaseURL        string // e.g. https://api.openai.com/v1
	APIKey         string
	EmbeddingModel string // e.g. text-embedding-3-small
	ChatModel      string // e.g. gpt-4o-mini
	MaxTokens      int    // 0 = provider default
	Timeout        time.Duration
}

// Client calls an OpenAI-compatible model service.
// It is stateless apart from the underlying http.Client and is safe for
// concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	embeddingModel string
	chatModel      string
	maxTokens      int
	httpClient     *http.Client
	logger         *slog.Logger
}

// New creates a Client. logger may be nil (defaults to slog.Default).
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		embeddingModel: cfg.EmbeddingModel,
		chatModel:      cfg.ChatModel,
		maxTokens:      cfg.MaxTokens,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}
}

// postJSON sends a JSON POST to baseURL+path and decodes the 2xx response
// body into out. Any failure wraps ErrUpstream.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("closing response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Warn("upstream returned error status",
			"path", path,
			"status", resp.StatusCode,
			"body", string(snippet),
		)
		return fmt.Errorf("%w: %s: status %d", ErrUpstream, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decoding response: %v", ErrUpstream, path, err)
	}

	return nil
}
