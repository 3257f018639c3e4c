// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package amend asks the LLM for a compliance revision of a contract and
// validates the marker annotations in the reply. Rendering the result is
// the render package's job; deciding what to do with malformed markers is
// the caller's.
package amend

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/regulaai/internal/llm"
	"github.com/pdiddy/regulaai/internal/markup"
	"github.com/pdiddy/regulaai/pkg/types"
)

// Options steers one amendment pass.
type Options struct {
	// Jurisdiction scopes the compliance review (default "global").
	Jurisdiction string

	// Laws lists the regulations to check against.
	Laws []string

	// Temperature for the completion (default 0.2).
	Temperature float64

	// MaxTokens caps the completion (default 4096).
	MaxTokens int

	// MaxRetries is the number of attempts on backend errors (default 3).
	MaxRetries int
}

// Generate calls the backend with the amendment prompt and returns the
// raw marked revision text. Backend errors are retried with exponential
// backoff.
func Generate(ctx context.Context, backend llm.Backend, contractText string, opts Options) (string, error) {
	if strings.TrimSpace(contractText) == "" {
		return "", fmt.Errorf("no contract text to amend")
	}

	system, err := renderSystemPrompt(contractText)
	if err != nil {
		return "", fmt.Errorf("rendering system prompt: %w", err)
	}
	user, err := renderUserPrompt(opts)
	if err != nil {
		return "", fmt.Errorf("rendering user prompt: %w", err)
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = 0.2
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	req := llm.ChatRequest{
		System:      system,
		User:        user,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	raw, err := callWithRetry(ctx, backend, req, maxRetries)
	if err != nil {
		return "", fmt.Errorf("generating amendment: %w", err)
	}
	return raw, nil
}

// Build parses raw marked text into an amendment record. A markup error
// propagates unwrapped so callers can errors.Is it and choose between
// rejecting the amendment and best-effort plain rendering.
func Build(contractID, marked string) (*types.Amendment, markup.Document, error) {
	doc, err := markup.Parse(marked)
	if err != nil {
		return nil, nil, err
	}

	updated, removed := doc.Counts()
	return &types.Amendment{
		ContractID: contractID,
		MarkedText: marked,
		Updated:    updated,
		Removed:    removed,
	}, doc, nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the backend with exponential backoff.
func callWithRetry(ctx context.Context, backend llm.Backend, req llm.ChatRequest, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := backend.Chat(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
