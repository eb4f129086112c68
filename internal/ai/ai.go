// Package ai defines the model-completion interface used by the suggestion
// generators, plus the retry, error, and cost plumbing shared by providers.
package ai

import "context"

// Usage counts tokens consumed by one or more model calls.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

// Add accumulates other into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
}

// Total returns the combined token count.
func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

// Completion is one model reply.
type Completion struct {
	Text  string
	Usage Usage
}

// Completer issues a single prompt to a model and returns its reply.
// Implementations must be safe for concurrent use; the generators run
// several sections in parallel against one Completer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Completion, error)

	// Model returns the model identifier, used for logging and pricing.
	Model() string
}
