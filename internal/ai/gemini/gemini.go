// Package gemini implements ai.Completer against the Gemini REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/indexpilot/indexpilot/internal/ai"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey      string
	model       string
	httpClient  *http.Client
	baseURL     string
	RetryConfig ai.RetryConfig
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Gemini completion client.
func NewClient(apiKey, model string, opts ...Option) *Client {
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:     defaultBaseURL,
		RetryConfig: ai.DefaultRetryConfig,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt to Gemini and returns the reply text plus token
// usage. Transient API errors are retried with backoff.
func (c *Client) Complete(ctx context.Context, prompt string) (ai.Completion, error) {
	if c.apiKey == "" {
		return ai.Completion{}, &ai.Error{
			Code:     ai.ErrNotConfigured,
			Message:  "Gemini API key not configured",
			Provider: "gemini",
		}
	}
	return ai.WithRetry(ctx, c.RetryConfig, func(ctx context.Context) (ai.Completion, error) {
		return c.generateContent(ctx, prompt)
	})
}

func (c *Client) generateContent(ctx context.Context, prompt string) (ai.Completion, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	reqBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":      0.1,
			"maxOutputTokens":  4096,
			"responseMimeType": "application/json",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return ai.Completion{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return ai.Completion{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ai.Completion{}, &ai.Error{
			Code:      ai.ErrProviderUnavailable,
			Message:   "Gemini API call failed",
			Provider:  "gemini",
			Retryable: true,
			Cause:     err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ai.Completion{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return ai.Completion{}, apiError(resp.StatusCode, respBody)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return ai.Completion{}, &ai.Error{
			Code:     ai.ErrInvalidResponse,
			Message:  "parse Gemini response",
			Provider: "gemini",
			Cause:    err,
		}
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return ai.Completion{}, &ai.Error{
			Code:     ai.ErrInvalidResponse,
			Message:  "empty Gemini response",
			Provider: "gemini",
		}
	}

	return ai.Completion{
		Text: geminiResp.Candidates[0].Content.Parts[0].Text,
		Usage: ai.Usage{
			PromptTokens:     geminiResp.UsageMetadata.PromptTokenCount,
			CompletionTokens: geminiResp.UsageMetadata.CandidatesTokenCount,
		},
	}, nil
}

// apiError maps an HTTP status to a structured error. Rate limits and
// server-side failures are retryable; other client errors are not.
func apiError(status int, body []byte) *ai.Error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ai.Error{
			Code:      ai.ErrRateLimited,
			Message:   fmt.Sprintf("Gemini API rate limited: %s", truncate(body, 200)),
			Provider:  "gemini",
			Retryable: true,
		}
	case status >= 500:
		return &ai.Error{
			Code:      ai.ErrProviderUnavailable,
			Message:   fmt.Sprintf("Gemini API error %d: %s", status, truncate(body, 200)),
			Provider:  "gemini",
			Retryable: true,
		}
	default:
		return &ai.Error{
			Code:     ai.ErrInvalidResponse,
			Message:  fmt.Sprintf("Gemini API error %d: %s", status, truncate(body, 200)),
			Provider: "gemini",
		}
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
