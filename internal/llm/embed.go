package llm

import (
	"context"
	"fmt"
	"strings"
)

// embeddingsRequest is the wire format for POST /embeddings.
type embeddingsRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// embeddingsResponse is the wire format of the embeddings endpoint.
type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed converts text into an embedding vector.
// Text that is empty after trimming fails with ErrEmptyInput before any
// remote call. Remote failures and empty/malformed payloads wrap ErrUpstream.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	var resp embeddingsResponse
	err := c.postJSON(ctx, "/embeddings", embeddingsRequest{
		Model: c.embeddingModel,
		Input: text,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: no embedding in response", ErrUpstream)
	}

	c.logger.Debug("embedded text", "model", c.embeddingModel, "dim", len(resp.Data[0].Embedding))
	return resp.Data[0].Embedding, nil
}
