// Package openai implements ai.Completer on top of the OpenAI chat API.
package openai

import (
	"context"
	"errors"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/indexpilot/indexpilot/internal/ai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Client calls the OpenAI chat completions endpoint.
type Client struct {
	client      *goopenai.Client
	model       string
	RetryConfig ai.RetryConfig
}

// NewClient creates an OpenAI completion client. baseURL may be empty to use
// the public API, or point at any OpenAI-compatible endpoint.
func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = DefaultModel
	}
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client:      goopenai.NewClientWithConfig(cfg),
		model:       model,
		RetryConfig: ai.DefaultRetryConfig,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the reply.
// The request pins JSON output mode so replies parse without fence
// stripping.
func (c *Client) Complete(ctx context.Context, prompt string) (ai.Completion, error) {
	return ai.WithRetry(ctx, c.RetryConfig, func(ctx context.Context) (ai.Completion, error) {
		return c.complete(ctx, prompt)
	})
}

func (c *Client) complete(ctx context.Context, prompt string) (ai.Completion, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return ai.Completion{}, mapError(err)
	}

	if len(resp.Choices) == 0 {
		return ai.Completion{}, &ai.Error{
			Code:     ai.ErrInvalidResponse,
			Message:  "empty OpenAI response",
			Provider: "openai",
		}
	}

	return ai.Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func mapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &ai.Error{
				Code:      ai.ErrRateLimited,
				Message:   "OpenAI API rate limited",
				Provider:  "openai",
				Retryable: true,
				Cause:     err,
			}
		case apiErr.HTTPStatusCode >= 500:
			return &ai.Error{
				Code:      ai.ErrProviderUnavailable,
				Message:   "OpenAI API server error",
				Provider:  "openai",
				Retryable: true,
				Cause:     err,
			}
		default:
			return &ai.Error{
				Code:     ai.ErrInvalidResponse,
				Message:  "OpenAI API request rejected",
				Provider: "openai",
				Cause:    err,
			}
		}
	}
	// Transport-level failure
	return &ai.Error{
		Code:      ai.ErrProviderUnavailable,
		Message:   "OpenAI API call failed",
		Provider:  "openai",
		Retryable: true,
		Cause:     err,
	}
}
