package llm

import (
	"context"
	"fmt"
)

// chatMessage is a single message in a chat completion request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the wire format for POST /chat/completions.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

// chatResponse is the wire format of the chat completion endpoint.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate produces an answer from a system instruction and a user prompt.
// Remote failures and empty/malformed payloads wrap ErrUpstream.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var resp chatResponse
	err := c.postJSON(ctx, "/chat/completions", chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: c.maxTokens,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrUpstream)
	}

	c.logger.Debug("generated completion", "model", c.chatModel, "answer_length", len(resp.Choices[0].Message.Content))
	return resp.Choices[0].Message.Content, nil
}
