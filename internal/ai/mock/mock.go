// Package mock provides an in-memory ai.Completer for tests and offline
// demos. Responses are matched by substring against the prompt, so the four
// generator sections can be scripted independently of call order.
package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/indexpilot/indexpilot/internal/ai"
)

// Completer replays canned responses and records every prompt it receives.
type Completer struct {
	mu        sync.Mutex
	responses []response
	fallback  string
	err       error
	prompts   []string
	usage     ai.Usage
}

type response struct {
	match string
	text  string
}

// New creates a mock completer whose default reply is fallback.
func New(fallback string) *Completer {
	return &Completer{
		fallback: fallback,
		usage:    ai.Usage{PromptTokens: 100, CompletionTokens: 20},
	}
}

// Respond registers text as the reply for any prompt containing match.
// Responses are checked in registration order.
func (c *Completer) Respond(match, text string) *Completer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, response{match: match, text: text})
	return c
}

// Fail makes every subsequent call return err.
func (c *Completer) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// SetUsage overrides the per-call token usage reported by the mock.
func (c *Completer) SetUsage(u ai.Usage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage = u
}

// Prompts returns a copy of every prompt seen so far.
func (c *Completer) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

// Complete implements ai.Completer.
func (c *Completer) Complete(_ context.Context, prompt string) (ai.Completion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return ai.Completion{}, c.err
	}
	for _, r := range c.responses {
		if r.match != "" && strings.Contains(prompt, r.match) {
			return ai.Completion{Text: r.text, Usage: c.usage}, nil
		}
	}
	return ai.Completion{Text: c.fallback, Usage: c.usage}, nil
}

// Model implements ai.Completer.
func (c *Completer) Model() string {
	return "mock"
}
