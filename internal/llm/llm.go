package llm

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Lipao9/sheeto/internal/worksheet"
)

// Temperature favors deterministic, format-adherent output.
const Temperature = 0.4

const (
	connectTimeout = 10 * time.Second
	requestTimeout = 50 * time.Second
	retryDelay     = 200 * time.Millisecond
)

// Client wraps an OpenAI-compatible API client and implements
// worksheet.CompletionClient.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client against the given OpenAI-compatible base URL.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		},
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Complete sends a system+user prompt pair to chat/completions and returns
// the first choice's content. A failed call is retried once after a short
// delay; the final failure is wrapped in *worksheet.TransportError.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: Temperature,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Warn("chat completion failed, retrying once", "error", err)
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return "", &worksheet.TransportError{Err: ctx.Err()}
		}
		resp, err = c.api.CreateChatCompletion(ctx, req)
	}
	if err != nil {
		return "", &worksheet.TransportError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
