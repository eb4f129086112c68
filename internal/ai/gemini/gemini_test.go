package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/indexpilot/indexpilot/internal/ai"
)

func geminiSuccessBody(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": text},
					},
				},
			},
		},
		"usageMetadata": map[string]any{
			"promptTokenCount":     120,
			"candidatesTokenCount": 30,
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", "gemini-2.0-flash", WithBaseURL(srv.URL))
	c.RetryConfig = ai.RetryConfig{MaxRetries: 1, InitialDelay: 1, MaxDelay: 1, BackoffFactor: 1}
	return c, srv
}

func TestComplete_Success(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := body["generationConfig"]; !ok {
			t.Fatal("expected generationConfig in request")
		}
		_ = json.NewEncoder(w).Encode(geminiSuccessBody(`{"ok": true}`))
	})

	got, err := c.Complete(context.Background(), "suggest attributes")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Text != `{"ok": true}` {
		t.Fatalf("unexpected text %q", got.Text)
	}
	if got.Usage.PromptTokens != 120 || got.Usage.CompletionTokens != 30 {
		t.Fatalf("unexpected usage %+v", got.Usage)
	}
	if gotPath != "/models/gemini-2.0-flash:generateContent" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestComplete_RateLimitedIsRetried(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(geminiSuccessBody("recovered"))
	})

	got, err := c.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if got.Text != "recovered" {
		t.Fatalf("unexpected text %q", got.Text)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestComplete_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Complete(context.Background(), "p")
	var aiErr *ai.Error
	if !errors.As(err, &aiErr) {
		t.Fatalf("expected *ai.Error, got %v", err)
	}
	if aiErr.Retryable {
		t.Fatal("expected 400 to be non-retryable")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestComplete_EmptyCandidates(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := c.Complete(context.Background(), "p")
	var aiErr *ai.Error
	if !errors.As(err, &aiErr) || aiErr.Code != ai.ErrInvalidResponse {
		t.Fatalf("expected INVALID_RESPONSE, got %v", err)
	}
}

func TestComplete_MissingAPIKey(t *testing.T) {
	c := NewClient("", "gemini-2.0-flash")
	_, err := c.Complete(context.Background(), "p")
	var aiErr *ai.Error
	if !errors.As(err, &aiErr) || aiErr.Code != ai.ErrNotConfigured {
		t.Fatalf("expected NOT_CONFIGURED, got %v", err)
	}
}
