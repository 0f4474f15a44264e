// Package llm is the client for the conversational text service. The service
// is a black box: system prompt and user text in, completion text out. The
// client adds what the caller must not think about — bearer auth, a request
// timeout, and bounded retry with backoff on transient failure.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second
	maxAttempts    = 3
	baseBackoff    = 500 * time.Millisecond
)

// Message is one turn of a chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	url    string
	apiKey string
	model  string
	httpc  *http.Client
	logger zerolog.Logger
}

func NewClient(url, apiKey, model string, logger zerolog.Logger) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		model:  model,
		httpc:  &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
}

// Complete sends a system prompt plus user text and returns the reply text.
// Transient failures (network errors, 5xx) are retried with exponential
// backoff; 4xx responses are terminal.
func (c *Client) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		reply, retryable, err := c.once(ctx, body)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		c.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("completion request failed, retrying")
	}
	return "", fmt.Errorf("completion failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) once(ctx context.Context, body []byte) (reply string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("POST %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return "", true, fmt.Errorf("completion endpoint returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("completion endpoint returned status %d", resp.StatusCode)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("decode completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", false, fmt.Errorf("completion response has no choices")
	}
	return out.Choices[0].Message.Content, false, nil
}
